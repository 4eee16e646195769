package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("fastflow %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestWordcountCommand(t *testing.T) {
	got := runCmd(t, "a a b c a b\n", "wordcount", "--workers=2")
	want := "a\t3\nb\t2\nc\t1\n"
	if got != want {
		t.Fatalf("wordcount output = %q; want %q", got, want)
	}
}

func TestWordcountFileTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("x y\ny z y\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := runCmd(t, "", "wordcount", "--top=1", path)
	if got != "y\t3\n" {
		t.Fatalf("wordcount --top=1 = %q; want y\\t3", got)
	}
}

func TestPiCommand(t *testing.T) {
	got := runCmd(t, "", "pi", "--samples=10000", "--parts=2")
	if !strings.Contains(got, `"pi_estimate"`) {
		t.Fatalf("pi output = %q", got)
	}
}

func TestConfigCommand(t *testing.T) {
	got := runCmd(t, "", "config", "--workers=6")
	if !strings.Contains(got, "workers: 6\n") {
		t.Fatalf("config output = %q; want workers: 6", got)
	}
}

func TestConfigCommandRejectsBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--overflow=reject"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("config with bad overflow succeeded; want error")
	}
}
