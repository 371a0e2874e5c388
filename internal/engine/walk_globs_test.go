package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEnumerate_WithIncludeExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("a.txt", "hello")
	mustWrite("wallets/b.dat", "wallet")
	mustWrite("c.md", "doc")

	rel := func(ts []string) []string {
		var out []string
		for _, p := range ts {
			r, _ := filepath.Rel(dir, p)
			out = append(out, filepath.ToSlash(r))
		}
		return out
	}
	paths := func(cfg Config) []string {
		targets, failures, err := Enumerate(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if len(failures) != 0 {
			t.Fatalf("unexpected failures: %v", failures)
		}
		var out []string
		for _, tg := range targets {
			out = append(out, tg.Path)
		}
		return rel(out)
	}

	// Include only *.dat
	got := paths(Config{Target: dir, IncludeGlobs: "**/*.dat"})
	if len(got) != 1 || got[0] != "wallets/b.dat" {
		t.Fatalf("include globs failed, got %v", got)
	}

	// Exclude *.md
	got = paths(Config{Target: dir, ExcludeGlobs: "**/*.md"})
	for _, p := range got {
		if p == "c.md" {
			t.Fatalf("exclude globs failed, saw %s", p)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %v", got)
	}
}

func TestEnumerate_FollowsFileSymlinksOnly(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	regular := filepath.Join(dir, "regular.bin")
	if err := os.WriteFile(regular, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	linked := filepath.Join(outside, "linked.bin")
	if err := os.WriteFile(linked, []byte("xyz"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outside, "hidden.bin"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(linked, filepath.Join(dir, "link.bin")); err != nil {
		t.Skip("symlinks not supported")
	}
	if err := os.Symlink(outside, filepath.Join(dir, "linkdir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "gone"), filepath.Join(dir, "dangling.bin")); err != nil {
		t.Fatal(err)
	}

	targets, failures, err := Enumerate(context.Background(), Config{Target: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(targets) != 2 {
		t.Fatalf("expected the file and the file link, got %v", targets)
	}
	if targets[0].Path != filepath.Join(dir, "link.bin") || targets[0].Size != 3 {
		t.Fatalf("link not resolved to its file: %+v", targets[0])
	}
	if targets[1].Path != regular || !targets[1].SizeKnown || targets[1].Size != 1 {
		t.Fatalf("size not recorded: %+v", targets[1])
	}
}

func TestEnumerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Enumerate(ctx, Config{Target: t.TempDir()}); err == nil {
		t.Fatal("expected cancellation error")
	}
}
