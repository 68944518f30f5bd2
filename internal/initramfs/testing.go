// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"
)

// MinimalELF returns a 64 bit little endian ELF executable header for the
// given machine without any program headers.
func MinimalELF(tb testing.TB, machine elf.Machine) []byte {
	tb.Helper()

	hdr := elf.Header64{
		Ident: [elf.EI_NIDENT]byte{
			0x7f, 'E', 'L', 'F',
			byte(elf.ELFCLASS64),
			byte(elf.ELFDATA2LSB),
			byte(elf.EV_CURRENT),
		},
		Type:    uint16(elf.ET_EXEC),
		Machine: uint16(machine),
		Version: uint32(elf.EV_CURRENT),
		Ehsize:  uint16(binary.Size(elf.Header64{})),
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		tb.Fatalf("failed to write ELF header: %v", err)
	}

	return buf.Bytes()
}
