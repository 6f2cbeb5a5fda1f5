package grib

import (
	"bytes"
	"os"
	"testing"
)

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.grib2"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeBytes_Garbage(t *testing.T) {
	if _, err := DecodeBytes([]byte("definitely not grib2")); err == nil {
		t.Fatal("expected error for garbage input")
	}
	if _, err := DecodeBytes(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestLoadField_Fixture(t *testing.T) {
	const path = "testdata/sample.grib2"
	if _, err := os.Stat(path); err != nil {
		t.Skipf("fixture %s not present", path)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	messages := f.Messages()
	if len(messages) == 0 {
		t.Fatal("fixture decoded to zero messages")
	}

	name, ok := messages[0].Keys["shortName"].(string)
	if !ok {
		t.Fatal("first message has no shortName key")
	}

	v, err := LoadField(path, Criteria{Parameter: ByName(name)})
	if err != nil {
		t.Fatalf("LoadField() error = %v", err)
	}
	if v == nil {
		t.Fatal("LoadField() returned nil field without error")
	}
}

func TestLoadBytes_Fixture(t *testing.T) {
	const path = "testdata/sample.grib2"
	if _, err := os.Stat(path); err != nil {
		t.Skipf("fixture %s not present", path)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	name := f.Messages()[0].Keys["shortName"].(string)

	raw, err := LoadBytes(path, Criteria{Parameter: ByName(name)})
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("GRIB")) {
		t.Errorf("message bytes start with %q, want GRIB", raw[:4])
	}
	if int64(len(raw)) != f.Messages()[0].Length {
		t.Errorf("LoadBytes() returned %d bytes, want %d", len(raw), f.Messages()[0].Length)
	}
}
