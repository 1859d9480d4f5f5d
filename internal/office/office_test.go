// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses. Version
// probes succeed for binaries listed in versionOK; other invocations go
// through runFunc.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	versionOK     map[string]bool // binary -> whether "--version" succeeds
	runFunc       func(name string, args []string) ([]byte, error)
	runCalls      [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(name string, args ...string) ([]byte, error) {
	m.runCalls = append(m.runCalls, append([]string{name}, args...))
	if len(args) == 1 && args[0] == "--version" {
		if m.versionOK[name] {
			return []byte(name + " 7.6.4"), nil
		}
		return nil, errors.New("version probe failed: " + name)
	}
	if m.runFunc != nil {
		return m.runFunc(name, args)
	}
	return nil, nil
}

func TestDetectSuite(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "soffice available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true},
				versionOK:     map[string]bool{"soffice": true},
			},
			wantName: "soffice",
		},
		{
			name: "libreoffice fallback when soffice missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"libreoffice": true},
				versionOK:     map[string]bool{"libreoffice": true},
			},
			wantName: "libreoffice",
		},
		{
			name: "soffice on PATH but version probe fails, libreoffice works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true, "libreoffice": true},
				versionOK:     map[string]bool{"libreoffice": true},
			},
			wantName: "libreoffice",
		},
		{
			name: "both available, soffice preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true, "libreoffice": true},
				versionOK:     map[string]bool{"soffice": true, "libreoffice": true},
			},
			wantName: "soffice",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, err := detectSuite(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no office suite available") {
					t.Errorf("error should mention no suite available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if suite.Name() != tt.wantName {
				t.Errorf("got suite %q, want %q", suite.Name(), tt.wantName)
			}
		})
	}
}

func TestConvertToDocx(t *testing.T) {
	outDir := t.TempDir()
	docPath := filepath.Join(outDir, "home.doc")

	exec := &mockExecutor{
		runFunc: func(name string, args []string) ([]byte, error) {
			// Simulate a successful conversion by creating the output.
			out := filepath.Join(outDir, "home.docx")
			if err := os.WriteFile(out, []byte("docx"), 0o644); err != nil {
				return nil, err
			}
			return []byte("convert /tmp/home.doc -> home.docx"), nil
		},
	}

	suite := newSofficeSuite(exec)
	if err := suite.ConvertToDocx(docPath, outDir); err != nil {
		t.Fatalf("ConvertToDocx: %v", err)
	}

	if len(exec.runCalls) != 1 {
		t.Fatalf("got %d runs, want 1", len(exec.runCalls))
	}
	got := strings.Join(exec.runCalls[0], " ")
	want := "soffice --headless --convert-to docx --outdir " + outDir + " " + docPath
	if got != want {
		t.Errorf("got command %q, want %q", got, want)
	}
}

func TestConvertToDocxNoOutput(t *testing.T) {
	outDir := t.TempDir()

	// Exit status 0 but no file written: still an error.
	exec := &mockExecutor{
		runFunc: func(name string, args []string) ([]byte, error) {
			return []byte("Error: source file could not be loaded"), nil
		},
	}

	suite := newLibreOfficeSuite(exec)
	err := suite.ConvertToDocx(filepath.Join(outDir, "page.doc"), outDir)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "produced no output") {
		t.Errorf("error should mention missing output, got: %v", err)
	}
	if !strings.Contains(err.Error(), "could not be loaded") {
		t.Errorf("error should carry tool output, got: %v", err)
	}
}

func TestConvertToDocxRunError(t *testing.T) {
	outDir := t.TempDir()

	exec := &mockExecutor{
		runFunc: func(name string, args []string) ([]byte, error) {
			return []byte("soffice: cannot open display"), errors.New("exit status 77")
		},
	}

	suite := newSofficeSuite(exec)
	err := suite.ConvertToDocx(filepath.Join(outDir, "page.doc"), outDir)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "exit status 77") {
		t.Errorf("error should wrap the exec error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "cannot open display") {
		t.Errorf("error should carry tool output, got: %v", err)
	}
}

func TestDetectPandoc(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"pandoc": true}}
	tr, err := detectPandoc(exec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Name() != "pandoc" {
		t.Errorf("got transcoder %q, want %q", tr.Name(), "pandoc")
	}

	if _, err := detectPandoc(&mockExecutor{}); err == nil {
		t.Fatal("expected error when pandoc is missing")
	}
}

func TestTranscode(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"pandoc": true}}
	tr := &pandoc{exec: exec}

	if err := tr.Transcode("dir/home.docx", "dir/home.md", "dir/home_media"); err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	if len(exec.runCalls) != 1 {
		t.Fatalf("got %d runs, want 1", len(exec.runCalls))
	}
	got := strings.Join(exec.runCalls[0], " ")
	want := "pandoc dir/home.docx -f docx -t gfm --extract-media dir/home_media -o dir/home.md"
	if got != want {
		t.Errorf("got command %q, want %q", got, want)
	}
}

func TestTranscodeError(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(name string, args []string) ([]byte, error) {
			return []byte("pandoc: home.docx: openBinaryFile: does not exist"), errors.New("exit status 1")
		},
	}
	tr := &pandoc{exec: exec}

	err := tr.Transcode("dir/home.docx", "dir/home.md", "dir/home_media")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error should carry tool output, got: %v", err)
	}
}
