// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs_test

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/aibor/guestinit/internal/initramfs"
	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	mode cpio.FileMode
	body string
}

func readArchive(t *testing.T, archive io.Reader) map[string]entry {
	t.Helper()

	entries := map[string]entry{}
	reader := cpio.NewReader(archive)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		body, err := io.ReadAll(reader)
		require.NoError(t, err)

		entries[hdr.Name] = entry{mode: hdr.Mode, body: string(body)}
	}

	return entries
}

func TestWrite(t *testing.T) {
	testFS := fstest.MapFS{
		"host/init":     &fstest.MapFile{Data: []byte("ELF"), Mode: 0o600},
		"host/run.json": &fstest.MapFile{Data: []byte(`{"files":[]}`)},
		"host/dir":      &fstest.MapFile{Mode: fs.ModeDir},
	}

	tests := []struct {
		name            string
		spec            initramfs.Spec
		expectedErr     error
		expectedEntries map[string]entry
	}{
		{
			name: "init and config",
			spec: initramfs.Spec{
				Init:   "host/init",
				Config: "host/run.json",
			},
			expectedEntries: map[string]entry{
				"init": {
					mode: cpio.TypeReg | 0o755,
					body: "ELF",
				},
				"guest": {
					mode: cpio.TypeDir | 0o755,
				},
				"guest/run.json": {
					mode: cpio.TypeReg | 0o644,
					body: `{"files":[]}`,
				},
			},
		},
		{
			name: "missing init",
			spec: initramfs.Spec{
				Init:   "host/missing",
				Config: "host/run.json",
			},
			expectedErr: fs.ErrNotExist,
		},
		{
			name: "config is directory",
			spec: initramfs.Spec{
				Init:   "host/init",
				Config: "host/dir",
			},
			expectedErr: initramfs.ErrNotRegularFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var archive bytes.Buffer

			err := initramfs.Write(&archive, testFS, tt.spec)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			assert.Equal(t, tt.expectedEntries, readArchive(t, &archive))
		})
	}
}
