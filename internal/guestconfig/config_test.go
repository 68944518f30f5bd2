// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/guestinit/internal/guestconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expected    *guestconfig.Config
		expectedErr error
		malformed   bool
	}{
		{
			name: "json",
			data: `{"files":[{"guest_path":"/etc/motd","raw_value":"aGVsbG8K"}]}`,
			expected: &guestconfig.Config{
				Files: []guestconfig.File{
					{GuestPath: "/etc/motd", RawValue: "aGVsbG8K"},
				},
			},
		},
		{
			name: "yaml with hostname",
			data: "hostname: guest\n" +
				"files:\n" +
				"- guest_path: /etc/motd\n" +
				"  raw_value: aGVsbG8K\n" +
				"- guest_path: /root/.profile\n" +
				"  raw_value: ''\n",
			expected: &guestconfig.Config{
				Files: []guestconfig.File{
					{GuestPath: "/etc/motd", RawValue: "aGVsbG8K"},
					{GuestPath: "/root/.profile", RawValue: ""},
				},
				Hostname: "guest",
			},
		},
		{
			name:     "empty",
			data:     `{}`,
			expected: &guestconfig.Config{},
		},
		{
			name:        "relative path",
			data:        `{"files":[{"guest_path":"etc/motd","raw_value":""}]}`,
			expectedErr: guestconfig.ErrInvalidConfig,
		},
		{
			name:      "malformed",
			data:      `{"files":`,
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := guestconfig.Parse([]byte(tt.data))

			if tt.malformed {
				require.Error(t, err)
				return
			}

			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	_, err := guestconfig.Load(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	data := `{"files":[],"hostname":"vm"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := guestconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vm", cfg.Hostname)
	assert.Empty(t, cfg.Files)
}
