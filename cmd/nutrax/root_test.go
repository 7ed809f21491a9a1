package nutrax

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected help output")
	}
}

func TestInitCreatesProfileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrax.db")
	args := []string{"--db", path, "init",
		"--name", "Luis", "--gender", "male", "--dob", "1990-01-15",
		"--height", "178", "--weight", "82"}

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected second init to fail, profile already exists")
	}
}

func TestParseMealTimestamp(t *testing.T) {
	t.Parallel()

	if _, err := parseMealTimestamp("", "13:00"); err == nil {
		t.Fatalf("expected --time without --date to fail")
	}
	if _, err := parseMealTimestamp("2026-8-1", ""); err == nil {
		t.Fatalf("expected malformed date to fail")
	}
	got, err := parseMealTimestamp("2026-08-20", "13:30")
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	if got.Format("2006-01-02 15:04") != "2026-08-20 13:30" {
		t.Fatalf("unexpected timestamp %v", got)
	}
}
