package wire

// Status is the response status code carried in the length field of a
// CommandResponse frame.
type Status uint16

const (
	// StatusSuccess indicates the operation completed successfully.
	StatusSuccess Status = 200

	// StatusIllegalCommand indicates the command is not recognized or
	// not handled by a registered command handler.
	StatusIllegalCommand Status = 2

	// StatusNotRegistered indicates the auth token is not registered.
	StatusNotRegistered Status = 3

	// StatusAlreadyRegistered indicates the device is already registered
	// under this auth token from another connection.
	StatusAlreadyRegistered Status = 4

	// StatusNotAuthenticated indicates a request was sent before login.
	StatusNotAuthenticated Status = 5

	// StatusNotAllowed indicates the operation is not permitted.
	StatusNotAllowed Status = 6

	// StatusDeviceNotInNetwork indicates the device has no network route.
	StatusDeviceNotInNetwork Status = 7

	// StatusInvalidToken indicates the auth token was rejected at login.
	StatusInvalidToken Status = 9

	// StatusTimeout indicates a locally-generated deadline expired
	// without a matching response (never sent on the wire).
	StatusTimeout Status = 16

	// StatusNoData indicates a read returned no data.
	StatusNoData Status = 17

	// StatusDeviceWentOffline indicates the peer device disconnected.
	StatusDeviceWentOffline Status = 18
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusIllegalCommand:
		return "ILLEGAL_COMMAND"
	case StatusNotRegistered:
		return "NOT_REGISTERED"
	case StatusAlreadyRegistered:
		return "ALREADY_REGISTERED"
	case StatusNotAuthenticated:
		return "NOT_AUTHENTICATED"
	case StatusNotAllowed:
		return "NOT_ALLOWED"
	case StatusDeviceNotInNetwork:
		return "DEVICE_NOT_IN_NETWORK"
	case StatusInvalidToken:
		return "INVALID_TOKEN"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusNoData:
		return "NO_DATA"
	case StatusDeviceWentOffline:
		return "DEVICE_WENT_OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return !s.IsSuccess()
}
