// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrOSABINotSupported is returned for ELF files not built for Linux.
	ErrOSABINotSupported = errors.New("OSABI not supported")

	// ErrMachineNotSupported is returned for ELF files of an unsupported
	// architecture.
	ErrMachineNotSupported = errors.New("machine not supported")

	// ErrDynamicallyLinked is returned if the ELF file requests an
	// interpreter. The archive does not carry shared libraries.
	ErrDynamicallyLinked = errors.New("dynamically linked")
)

// ValidateInit checks that the given file can be run as init from the
// archive: a Linux ELF executable for a supported machine that needs no
// dynamic loader.
func ValidateInit(file io.ReaderAt) error {
	elfFile, err := elf.NewFile(file)
	if err != nil {
		// Files shorter than the ELF ident fail with EOF.
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) ||
			errors.Is(err, io.EOF) ||
			errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %w", ErrNotELFFile, err)
		}

		return fmt.Errorf("read ELF: %w", err)
	}
	defer elfFile.Close()

	if err := validateHeader(elfFile.FileHeader); err != nil {
		return err
	}

	for _, prog := range elfFile.Progs {
		if prog.Type == elf.PT_INTERP {
			return ErrDynamicallyLinked
		}
	}

	return nil
}

func validateHeader(hdr elf.FileHeader) error {
	switch hdr.OSABI {
	case elf.ELFOSABI_NONE, elf.ELFOSABI_LINUX:
		// supported, pass
	default:
		return fmt.Errorf("%w: %s", ErrOSABINotSupported, hdr.OSABI)
	}

	switch hdr.Machine {
	case elf.EM_X86_64, elf.EM_AARCH64, elf.EM_RISCV:
		// supported, pass
	default:
		return fmt.Errorf("%w: %s", ErrMachineNotSupported, hdr.Machine)
	}

	return nil
}
