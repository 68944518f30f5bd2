// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestconfig

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/ghodss/yaml"
)

// DefaultPath is the location of the descriptor in the initramfs.
const DefaultPath = "/guest/run.json"

// ErrInvalidConfig is returned if the descriptor is decoded but its content
// is not usable.
var ErrInvalidConfig = errors.New("invalid guest config")

// File is a file to write into the guest root.
type File struct {
	// GuestPath is the absolute path of the file in the guest root.
	GuestPath string `json:"guest_path"`
	// RawValue is the base64 encoded content of the file.
	RawValue string `json:"raw_value"`
}

// Config is the guest configuration descriptor.
type Config struct {
	// Files are written in the given order. Later files overwrite earlier
	// ones with the same path.
	Files []File `json:"files"`
	// Hostname is set if not empty.
	Hostname string `json:"hostname,omitempty"`
}

// Load reads and parses the descriptor at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guest config: %w", err)
	}

	return Parse(data)
}

// Parse parses the given descriptor. It may be JSON or YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode guest config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all files have an absolute guest path.
func (c *Config) Validate() error {
	for idx, file := range c.Files {
		if !path.IsAbs(file.GuestPath) {
			return fmt.Errorf("%w: file %d: guest path not absolute: %q",
				ErrInvalidConfig, idx, file.GuestPath)
		}
	}

	return nil
}
