package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func keyBlob() []byte {
	b := []byte{0x00, 0x02, 0x01, 0x01, 0x04, 0x20}
	key := make([]byte, 32)
	key[31] = 1
	return append(b, key...)
}

func TestScan_SingleFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(p, keyBlob(), 0o644); err != nil {
		t.Fatal(err)
	}
	rep, err := Scan(context.Background(), Config{Target: p, OutputPath: filepath.Join(dir, "keys.txt")})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if rep.UniqueKeys() != 1 {
		t.Fatalf("expected 1 key, got %d", rep.UniqueKeys())
	}
	if rep.Keys[0].WIFCompressed != "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn" {
		t.Fatalf("unexpected WIF %s", rep.Keys[0].WIFCompressed)
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	rep, err := Scan(context.Background(), Config{Target: t.TempDir(), NoOutput: true})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if rep.FilesScanned != 0 || rep.UniqueKeys() != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}

func TestMarshalReport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(p, keyBlob(), 0o644); err != nil {
		t.Fatal(err)
	}
	rep, err := Scan(context.Background(), Config{Target: p, NoOutput: true})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := MarshalReport(&buf, rep); err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalReport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Keys) != 1 || got.Keys[0].RawHex != rep.Keys[0].RawHex || got.Mode != rep.Mode {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestServeWorker(t *testing.T) {
	p := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(p, keyBlob(), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ServeWorker(p, 0, true, &buf); err != nil {
		t.Fatal(err)
	}
	if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
		t.Fatalf("expected one result line, got %q", buf.String())
	}
}
