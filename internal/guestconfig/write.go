// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestconfig

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/aibor/guestinit/sysinit"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// WriteFiles decodes the given files and writes them below root.
//
// Guest paths are resolved inside root, so symbolic links in the guest file
// system can not lead outside of it. Missing parent directories are created.
// Existing files are truncated. All errors are of type *[sysinit.OpError].
func WriteFiles(root string, files []File) error {
	for _, file := range files {
		data, err := base64.StdEncoding.DecodeString(file.RawValue)
		if err != nil {
			return writeError(file.GuestPath, fmt.Errorf("decode: %w", err))
		}

		if err := writeFile(root, file.GuestPath, data); err != nil {
			return err
		}

		slog.Info("Saved file", slog.String("path", file.GuestPath))
	}

	return nil
}

// WriteResolverFiles writes /etc/resolv.conf with the given nameserver and
// /etc/hosts with the loopback entry below root.
func WriteResolverFiles(root, nameserver string) error {
	files := []struct {
		path string
		data string
	}{
		{"/etc/resolv.conf", "nameserver " + nameserver + "\n"},
		{"/etc/hosts", "127.0.0.1 localhost\n"},
	}

	for _, file := range files {
		if err := writeFile(root, file.path, []byte(file.data)); err != nil {
			return err
		}

		slog.Debug("Saved file", slog.String("path", file.path))
	}

	return nil
}

// Apply writes the configured files and the resolver files into the guest
// root and sets the hostname, if configured.
//
// Failing to set the hostname is only logged.
func (c *Config) Apply(root string, sys sysinit.Syscalls, nameserver string) error {
	if err := WriteFiles(root, c.Files); err != nil {
		return err
	}

	if err := WriteResolverFiles(root, nameserver); err != nil {
		return err
	}

	if c.Hostname == "" {
		return nil
	}

	if err := sys.Sethostname(c.Hostname); err != nil {
		slog.Warn("Failed to set hostname",
			slog.String("hostname", c.Hostname),
			slog.Any("error", err),
		)

		return nil
	}

	slog.Info("Hostname set", slog.String("hostname", c.Hostname))

	return nil
}

// WithConfig returns a setup [sysinit.Func] that applies the given config
// to the root file system. It can be used with [sysinit.Run] and must run
// after the root is switched.
func WithConfig(cfg *Config, sys sysinit.Syscalls, nameserver string) sysinit.Func {
	return func(_ *sysinit.State) error {
		return cfg.Apply("/", sys, nameserver)
	}
}

func writeFile(root, guestPath string, data []byte) error {
	path, err := securejoin.SecureJoin(root, guestPath)
	if err != nil {
		return writeError(guestPath, fmt.Errorf("resolve: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return writeError(guestPath, fmt.Errorf("create parent: %w", err))
	}

	if err := os.WriteFile(path, data, fileMode); err != nil {
		return writeError(guestPath, err)
	}

	return nil
}

func writeError(path string, err error) error {
	return &sysinit.OpError{
		Op:   sysinit.OpWriteFile,
		Path: path,
		Err:  err,
	}
}
