package wire

import (
	"bytes"
	"testing"
)

func TestFieldWriterAppend(t *testing.T) {
	w := NewFieldWriter().Append(String("vw"), Int(5), Float(12.3))
	got := w.Bytes()
	want := []byte("vw\x005\x0012.3000000")
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestFieldWriterBoolAndUint(t *testing.T) {
	w := NewFieldWriter().Append(Bool(true), Uint(42))
	got := w.Bytes()
	want := []byte("true\x0042")
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestFieldWriterChar(t *testing.T) {
	w := NewFieldWriter().Append(Char('A'))
	if got := w.Bytes(); !bytes.Equal(got, []byte("A")) {
		t.Fatalf("Bytes() = %q, want %q", got, "A")
	}
}

func TestFieldWriterTruncatesAtMaxPayload(t *testing.T) {
	w := NewFieldWriter()
	w.Append(String(string(bytes.Repeat([]byte{'x'}, MaxPayloadSize+50))))
	if got := len(w.Bytes()); got != MaxPayloadSize {
		t.Fatalf("len(Bytes()) = %d, want %d", got, MaxPayloadSize)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    []string
	}{
		{name: "empty", payload: nil, want: nil},
		{name: "single", payload: []byte("vw"), want: []string{"vw"}},
		{
			name:    "command with args",
			payload: []byte("vw\x005\x00100"),
			want:    []string{"vw", "5", "100"},
		},
		{
			name:    "empty trailing arg",
			payload: []byte("vr\x005\x00"),
			want:    []string{"vr", "5", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArgs(tt.payload)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitArgs(%q) = %v, want %v", tt.payload, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("SplitArgs(%q)[%d] = %q, want %q", tt.payload, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitArgsCapsAt32Elements(t *testing.T) {
	payload := bytes.Repeat([]byte("a\x00"), 40)
	payload = payload[:len(payload)-1]

	got := SplitArgs(payload)
	if len(got) != 32 {
		t.Fatalf("len(SplitArgs(...)) = %d, want 32", len(got))
	}
}
