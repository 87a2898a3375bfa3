package core

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

// helperEnv switches the test binary into a minimal unzip tool, so tests can
// exercise a faithful extractor without depending on one being installed.
const helperEnv = "UNZIPTESTER_HELPER_TOOL"

func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "extract" {
		os.Exit(runHelperExtract(os.Args[len(os.Args)-1]))
	}
	goleak.VerifyTestMain(m)
}

// runHelperExtract writes every file entry of archivePath into the cwd.
func runHelperExtract(archivePath string) int {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return 2
	}
	defer rc.Close()
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractOne(f); err != nil {
			return 3
		}
	}
	return 0
}

func extractOne(f *zip.File) error {
	dst := filepath.FromSlash(f.Name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// helperTool returns the test binary path and the env that turns it into an
// extractor.
func helperTool(t *testing.T) (string, map[string]string) {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	return exe, map[string]string{helperEnv: "extract"}
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

// writeScript writes an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}
