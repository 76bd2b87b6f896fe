package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file format, layered
// under the command-line flags: a flag explicitly set on the command
// line always wins over a value loaded from file.
type fileConfig struct {
	AuthToken         string        `yaml:"auth_token"`
	ServerAddress     string        `yaml:"server_address"`
	Timeout           time.Duration `yaml:"timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
}

// loadConfigFile reads and parses a YAML configuration file.
func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}
