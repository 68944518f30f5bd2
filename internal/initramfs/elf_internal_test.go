// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"bytes"
	"debug/elf"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name        string
		hdr         elf.FileHeader
		expectedErr error
	}{
		{
			name: "amd64",
			hdr:  elf.FileHeader{OSABI: elf.ELFOSABI_NONE, Machine: elf.EM_X86_64},
		},
		{
			name: "arm64 linux",
			hdr:  elf.FileHeader{OSABI: elf.ELFOSABI_LINUX, Machine: elf.EM_AARCH64},
		},
		{
			name: "riscv64",
			hdr:  elf.FileHeader{OSABI: elf.ELFOSABI_NONE, Machine: elf.EM_RISCV},
		},
		{
			name:        "freebsd",
			hdr:         elf.FileHeader{OSABI: elf.ELFOSABI_FREEBSD, Machine: elf.EM_X86_64},
			expectedErr: ErrOSABINotSupported,
		},
		{
			name:        "i386",
			hdr:         elf.FileHeader{OSABI: elf.ELFOSABI_NONE, Machine: elf.EM_386},
			expectedErr: ErrMachineNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validateHeader(tt.hdr), tt.expectedErr)
		})
	}
}

func TestValidateInit(t *testing.T) {
	t.Run("not elf", func(t *testing.T) {
		err := ValidateInit(strings.NewReader("#!/bin/sh\necho hi\n"))
		assert.ErrorIs(t, err, ErrNotELFFile)
	})

	t.Run("shorter than ident", func(t *testing.T) {
		err := ValidateInit(strings.NewReader("#!/bin/sh\n"))
		assert.ErrorIs(t, err, ErrNotELFFile)
	})

	t.Run("empty", func(t *testing.T) {
		err := ValidateInit(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrNotELFFile)
	})

	t.Run("static", func(t *testing.T) {
		data := MinimalELF(t, elf.EM_X86_64)
		assert.NoError(t, ValidateInit(bytes.NewReader(data)))
	})

	t.Run("unsupported machine", func(t *testing.T) {
		data := MinimalELF(t, elf.EM_386)
		assert.ErrorIs(t, ValidateInit(bytes.NewReader(data)), ErrMachineNotSupported)
	})

	t.Run("own executable", func(t *testing.T) {
		path, err := os.Executable()
		require.NoError(t, err)

		file, err := os.Open(path)
		require.NoError(t, err)

		t.Cleanup(func() { _ = file.Close() })

		// The test binary may or may not be linked statically.
		err = ValidateInit(file)
		if err != nil {
			assert.ErrorIs(t, err, ErrDynamicallyLinked)
		}
	})
}
