// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/aibor/guestinit/internal/guestconfig"
)

const (
	// InitPath is the archive path of the init binary. The kernel runs it
	// as PID 1.
	InitPath = "init"

	dirMode    fs.FileMode = 0o755
	initMode   fs.FileMode = 0o755
	configMode fs.FileMode = 0o644
)

// ConfigPath is the archive path of the guest config descriptor.
var ConfigPath = strings.TrimPrefix(guestconfig.DefaultPath, "/")

// Spec describes the files packed into the archive. Paths are relative to
// the [fs.FS] passed to [Write].
type Spec struct {
	Init   string
	Config string
}

// Write writes the archive described by spec into w. Source files are read
// from fsys.
func Write(w io.Writer, fsys fs.FS, spec Spec) error {
	writer := NewCPIOWriter(w)

	if err := writeEntries(writer, fsys, spec); err != nil {
		_ = writer.Close()
		return err
	}

	return writer.Close()
}

func writeEntries(writer *CPIOWriter, fsys fs.FS, spec Spec) error {
	if err := writeFile(writer, fsys, spec.Init, InitPath, initMode); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := writeParents(writer, ConfigPath); err != nil {
		return err
	}

	if err := writeFile(writer, fsys, spec.Config, ConfigPath, configMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// writeParents adds directory entries for all parents of the given path,
// top down.
func writeParents(writer *CPIOWriter, file string) error {
	var parents []string

	for dir := path.Dir(file); dir != "."; dir = path.Dir(dir) {
		parents = append(parents, dir)
	}

	for idx := len(parents) - 1; idx >= 0; idx-- {
		if err := writer.WriteDirectory(parents[idx], dirMode); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(
	writer *CPIOWriter,
	fsys fs.FS,
	source, target string,
	mode fs.FileMode,
) error {
	file, err := fsys.Open(source)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return writer.WriteRegular(target, file, mode)
}
