// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aibor/guestinit/internal/guestconfig"
	"github.com/aibor/guestinit/internal/initramfs"
)

// fsysPath converts the given host path into a path usable with
// os.DirFS("/").
func fsysPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path for %s: %w", path, err)
	}

	return strings.TrimPrefix(abs, "/"), nil
}

func validateInit(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open init: %w", err)
	}
	defer file.Close()

	if err := initramfs.ValidateInit(file); err != nil {
		return fmt.Errorf("init %s: %w", path, err)
	}

	return nil
}

func mkinitramfs(flags *mkinitramfsFlags) error {
	// Fail early on the host instead of in the booting guest.
	if _, err := guestconfig.Load(flags.ConfigPath); err != nil {
		return err
	}

	if err := validateInit(flags.InitPath); err != nil {
		return err
	}

	spec := initramfs.Spec{}

	var err error

	spec.Init, err = fsysPath(flags.InitPath)
	if err != nil {
		return err
	}

	spec.Config, err = fsysPath(flags.ConfigPath)
	if err != nil {
		return err
	}

	file, err := os.Create(flags.OutputPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	err = initramfs.Write(file, os.DirFS("/"), spec)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close archive: %w", closeErr)
	}

	if err != nil {
		removeArchive(flags.OutputPath)
		return fmt.Errorf("write archive: %w", err)
	}

	slog.Debug("Created initramfs archive",
		slog.String("path", flags.OutputPath))

	return nil
}

func removeArchive(path string) {
	slog.Debug("Removing initramfs archive", slog.String("path", path))

	err := os.Remove(path)
	if err != nil {
		slog.Error(
			"Failed to remove initramfs archive",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

// RunMkinitramfs is the main entry point of the initramfs packer.
func RunMkinitramfs(args []string, output io.Writer) int {
	flags := newMkinitramfsFlags(output)

	err := flags.ParseArgs(args)
	if err != nil {
		setupLogging(output, debugFromEnv())
		return handleParseArgsError(err)
	}

	setupLogging(output, flags.Debug || debugFromEnv())

	err = mkinitramfs(flags)
	if err != nil {
		slog.Error(err.Error())
		return exitCodeFailure
	}

	return exitCodeSuccess
}
