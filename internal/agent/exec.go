// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// NoCommandOutput is the output for a request without command.
const NoCommandOutput = "No command provided"

// ExecFunc runs the given command and returns the output text for the
// response.
type ExecFunc func(cmd []string) string

var _ ExecFunc = Exec

// Exec runs the given command and returns its standard output as valid UTF-8
// text.
//
// The first element is the executable, the remaining ones are its arguments.
// If the command can not be started, the returned text describes the error.
// Standard error of the command is passed through to the standard error of
// the init.
//
// Exec does not wait for the command. It returns once the command closed its
// standard output. Collecting the exit status is left to the reaper of the
// init, so each exit status is consumed exactly once.
func Exec(cmd []string) string {
	if len(cmd) == 0 {
		return NoCommandOutput
	}

	output, err := run(cmd[0], cmd[1:])
	if err != nil {
		return "Failed to execute command: " + err.Error()
	}

	return lossyString(output)
}

func run(path string, args []string) ([]byte, error) {
	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}
	defer reader.Close()

	cmd := exec.Command(path, args...)
	cmd.Stdout = writer
	cmd.Stderr = os.Stderr

	err = cmd.Start()

	// The child has its own copy of the write end. Closing ours makes the
	// read return EOF once the child closed its copy.
	_ = writer.Close()

	if err != nil {
		//nolint:wrapcheck
		return nil, err
	}

	pid := cmd.Process.Pid
	slog.Debug("Command started", slog.Int("pid", pid), slog.String("path", path))

	// Release the process handle without waiting.
	defer func() {
		if err := cmd.Process.Release(); err != nil {
			slog.Debug("Release process", slog.Int("pid", pid), slog.Any("error", err))
		}
	}()

	output, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	return output, nil
}

// lossyString converts data into a valid UTF-8 string. Each maximal invalid
// subsequence is replaced by a single [utf8.RuneError].
func lossyString(data []byte) string {
	var out strings.Builder

	out.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			out.WriteRune(utf8.RuneError)
			data = data[invalidLen(data):]

			continue
		}

		out.Write(data[:size])
		data = data[size:]
	}

	return out.String()
}

// invalidLen returns the length of the maximal subpart of an ill-formed
// sequence at the start of data: a lead byte followed by all continuation
// bytes that still form a valid prefix.
func invalidLen(data []byte) int {
	var lo, hi byte = 0x80, 0xbf

	need := 0

	switch lead := data[0]; {
	case lead >= 0xc2 && lead <= 0xdf:
		need = 1
	case lead == 0xe0:
		need, lo = 2, 0xa0
	case lead == 0xed:
		need, hi = 2, 0x9f
	case lead >= 0xe1 && lead <= 0xef:
		need = 2
	case lead == 0xf0:
		need, lo = 3, 0x90
	case lead == 0xf4:
		need, hi = 3, 0x8f
	case lead >= 0xf1 && lead <= 0xf3:
		need = 3
	}

	length := 1

	for ; length <= need && length < len(data); length++ {
		if data[length] < lo || data[length] > hi {
			break
		}

		lo, hi = 0x80, 0xbf
	}

	return length
}
