// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office detects and runs the external tools behind the Word
// pipeline: a local office suite for the .doc to .docx step and pandoc for
// the .docx to Markdown step.
package office

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binSoffice     = "soffice"
	binLibreOffice = "libreoffice"
	binPandoc      = "pandoc"
)

// Suite converts legacy Word documents with a local office installation.
type Suite interface {
	// Name returns the suite binary ("soffice" or "libreoffice").
	Name() string

	// Available reports whether the binary exists on PATH and answers a
	// version probe.
	Available() bool

	// ConvertToDocx converts docPath into a .docx of the same base name
	// inside outDir.
	ConvertToDocx(docPath, outDir string) error
}

// Transcoder turns a .docx into GitHub-flavored Markdown.
type Transcoder interface {
	// Name returns the transcoder binary.
	Name() string

	// Available reports whether the binary exists on PATH.
	Available() bool

	// Transcode converts docxPath to Markdown at mdPath, extracting
	// embedded media under mediaDir.
	Transcode(docxPath, mdPath, mediaDir string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec. Run returns the
// command's combined output so tool diagnostics survive into errors.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// suite implements Suite for a specific office binary. soffice and
// libreoffice take identical arguments; they differ only in binary name.
type suite struct {
	bin  string
	exec executor
}

func (s *suite) Name() string { return s.bin }

func (s *suite) Available() bool {
	if _, err := s.exec.LookPath(s.bin); err != nil {
		return false
	}
	_, err := s.exec.Run(s.bin, "--version")
	return err == nil
}

func (s *suite) ConvertToDocx(docPath, outDir string) error {
	out, err := s.exec.Run(s.bin, "--headless", "--convert-to", "docx", "--outdir", outDir, docPath)
	if err != nil {
		return fmt.Errorf("%s convert of %s failed: %w%s", s.bin, filepath.Base(docPath), err, toolNote(out))
	}

	// The suite can exit 0 on a failed conversion; the output file is the
	// real signal.
	docx := filepath.Join(outDir, docxName(docPath))
	if _, err := os.Stat(docx); err != nil {
		return fmt.Errorf("%s produced no output for %s%s", s.bin, filepath.Base(docPath), toolNote(out))
	}
	return nil
}

// docxName returns the .docx file name the suite writes for docPath.
func docxName(docPath string) string {
	base := filepath.Base(docPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".docx"
}

// pandoc implements Transcoder by shelling out to the pandoc binary.
type pandoc struct {
	exec executor
}

func (p *pandoc) Name() string { return binPandoc }

func (p *pandoc) Available() bool {
	_, err := p.exec.LookPath(binPandoc)
	return err == nil
}

func (p *pandoc) Transcode(docxPath, mdPath, mediaDir string) error {
	args := []string{docxPath, "-f", "docx", "-t", "gfm", "--extract-media", mediaDir, "-o", mdPath}
	if out, err := p.exec.Run(binPandoc, args...); err != nil {
		return fmt.Errorf("pandoc transcode of %s failed: %w%s", filepath.Base(docxPath), err, toolNote(out))
	}
	return nil
}

// toolNote formats the first line of tool output for an error message.
func toolNote(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return ": " + s
}

func newSofficeSuite(exec executor) *suite {
	return &suite{bin: binSoffice, exec: exec}
}

func newLibreOfficeSuite(exec executor) *suite {
	return &suite{bin: binLibreOffice, exec: exec}
}

var defaultExec = &osExecutor{}

// DetectSuite tries soffice first, falls back to libreoffice. Returns an
// error if neither binary is available.
func DetectSuite() (Suite, error) {
	return detectSuite(defaultExec)
}

func detectSuite(exec executor) (Suite, error) {
	soffice := newSofficeSuite(exec)
	if soffice.Available() {
		return soffice, nil
	}

	libre := newLibreOfficeSuite(exec)
	if libre.Available() {
		return libre, nil
	}

	return nil, fmt.Errorf(
		"no office suite available: neither %s nor %s found or operational",
		binSoffice, binLibreOffice,
	)
}

// DetectPandoc returns the pandoc transcoder, or an error when the binary is
// missing from PATH.
func DetectPandoc() (Transcoder, error) {
	return detectPandoc(defaultExec)
}

func detectPandoc(exec executor) (Transcoder, error) {
	p := &pandoc{exec: exec}
	if !p.Available() {
		return nil, fmt.Errorf("pandoc not found on PATH")
	}
	return p, nil
}
