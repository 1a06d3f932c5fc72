package migration

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrCorruptArchive = errors.New("invalid zip archive")

// Archive is a read-only view over an in-memory ZIP blob.
type Archive struct {
	entries map[string]*zip.File
}

func OpenArchive(data []byte) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	entries := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		entries[f.Name] = f
	}
	return &Archive{entries: entries}, nil
}

// Text extracts the named entry as UTF-8 text, stripping a leading byte-order
// mark if present (common artifact of spreadsheet exports). ok is false when
// the entry is absent or unreadable.
func (a *Archive) Text(name string) (text string, ok bool) {
	f, found := a.entries[name]
	if !found {
		return "", false
	}

	rc, err := f.Open()
	if err != nil {
		return "", false
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", false
	}

	return strings.TrimPrefix(string(raw), "\uFEFF"), true
}
