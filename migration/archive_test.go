package migration

import (
	"errors"
	"testing"
)

func TestArchiveText_StripsLeadingByteOrderMark(t *testing.T) {
	data := buildZip(t, map[string]string{
		"areas.csv": "\uFEFFid,nome\n1,Cozinha\n",
	})

	archive, err := OpenArchive(data)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	text, ok := archive.Text("areas.csv")
	if !ok {
		t.Fatal("expected entry to be readable")
	}
	if text != "id,nome\n1,Cozinha\n" {
		t.Fatalf("expected byte-order mark stripped, got %q", text)
	}
}

func TestArchiveText_MissingEntry(t *testing.T) {
	archive, err := OpenArchive(buildZip(t, map[string]string{"areas.csv": "id,nome\n"}))
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	if _, ok := archive.Text("fornecedores.csv"); ok {
		t.Fatal("expected miss for absent entry")
	}
}

func TestOpenArchive_RejectsInvalidBytes(t *testing.T) {
	if _, err := OpenArchive([]byte("not a zip")); !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("expected ErrCorruptArchive, got %v", err)
	}
}
