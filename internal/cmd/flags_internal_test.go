// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFlags_ParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    initFlags
		expectedErr error
	}{
		{
			name: "defaults",
			expected: initFlags{
				ConfigPath: "/guest/run.json",
				VsockPort:  10000,
			},
		},
		{
			name: "help",
			args: []string{
				"--help",
			},
			expectedErr: ErrHelp,
		},
		{
			name: "all flags",
			args: []string{
				"--config=/other.yaml",
				"--debug",
				"--vsock-port=1024",
			},
			expected: initFlags{
				ConfigPath: "/other.yaml",
				Debug:      true,
				VsockPort:  1024,
			},
		},
		{
			name: "unknown kernel parameters are ignored",
			args: []string{
				"--quiet",
				"--debug",
				"splash",
			},
			expected: initFlags{
				ConfigPath: "/guest/run.json",
				Debug:      true,
				VsockPort:  10000,
			},
		},
		{
			name: "empty config",
			args: []string{
				"--config=",
			},
			expectedErr: ErrMissingArg,
		},
		{
			name: "invalid port",
			args: []string{
				"--vsock-port=none",
			},
			expectedErr: &ParseArgsError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newInitFlags(io.Discard)

			err := flags.ParseArgs(tt.args)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			assert.Equal(t, tt.expected.ConfigPath, flags.ConfigPath, "config")
			assert.Equal(t, tt.expected.Debug, flags.Debug, "debug")
			assert.Equal(t, tt.expected.VsockPort, flags.VsockPort, "port")
		})
	}
}

func TestMkinitramfsFlags_ParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    mkinitramfsFlags
		expectedErr error
	}{
		{
			name: "short flags",
			args: []string{
				"-i", "bin/init",
				"-c", "run.json",
			},
			expected: mkinitramfsFlags{
				InitPath:   "bin/init",
				ConfigPath: "run.json",
				OutputPath: "initramfs.cpio",
			},
		},
		{
			name: "long flags",
			args: []string{
				"--init=bin/init",
				"--config=run.yaml",
				"--output=/tmp/out.cpio",
				"--debug",
			},
			expected: mkinitramfsFlags{
				InitPath:   "bin/init",
				ConfigPath: "run.yaml",
				OutputPath: "/tmp/out.cpio",
				Debug:      true,
			},
		},
		{
			name: "no init",
			args: []string{
				"--config=run.json",
			},
			expectedErr: ErrMissingArg,
		},
		{
			name: "no config",
			args: []string{
				"--init=bin/init",
			},
			expectedErr: ErrMissingArg,
		},
		{
			name: "empty output",
			args: []string{
				"--init=bin/init",
				"--config=run.json",
				"--output=",
			},
			expectedErr: ErrMissingArg,
		},
		{
			name: "unknown flag",
			args: []string{
				"--kernel=/boot/vmlinuz",
			},
			expectedErr: &ParseArgsError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newMkinitramfsFlags(io.Discard)

			err := flags.ParseArgs(tt.args)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			assert.Equal(t, tt.expected.InitPath, flags.InitPath, "init")
			assert.Equal(t, tt.expected.ConfigPath, flags.ConfigPath, "config")
			assert.Equal(t, tt.expected.OutputPath, flags.OutputPath, "output")
			assert.Equal(t, tt.expected.Debug, flags.Debug, "debug")
		})
	}
}

func TestHandleParseArgsError(t *testing.T) {
	assert.Equal(t, exitCodeSuccess,
		handleParseArgsError(&ParseArgsError{err: ErrHelp}))
	assert.Equal(t, exitCodeFailure,
		handleParseArgsError(&ParseArgsError{msg: "fail"}))
	assert.Equal(t, exitCodeFailure,
		handleParseArgsError(assert.AnError))
}
