// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/confluence-export/internal/office"
	"github.com/pdiddy/confluence-export/pkg/types"
)

// DocSource downloads the legacy Word export of a page to a local file.
type DocSource interface {
	DownloadWordExport(ctx context.Context, pageID, destPath string) error
}

// WordPipeline is the three-stage exporter: download the .doc export,
// convert it to .docx with a local office suite, transcode the .docx to
// Markdown with pandoc. The sibling artifacts (.doc, .docx, media) stay on
// disk next to the Markdown; they double as the stages' skip markers.
type WordPipeline struct {
	source DocSource
	suite  office.Suite
	pandoc office.Transcoder
}

// NewWordPipeline assembles the Word exporter from its three tools.
func NewWordPipeline(source DocSource, suite office.Suite, pandoc office.Transcoder) *WordPipeline {
	return &WordPipeline{source: source, suite: suite, pandoc: pandoc}
}

// Export runs download, convert, and transcode for one page, skipping any
// stage whose output file already exists.
func (p *WordPipeline) Export(ctx context.Context, page *types.Page, dir, base string, w io.Writer) (bool, error) {
	docPath := filepath.Join(dir, base+".doc")
	docxPath := filepath.Join(dir, base+".docx")
	mdPath := filepath.Join(dir, base+".md")
	mediaDir := filepath.Join(dir, base+"_media")

	skipped := true

	if stageExists(docPath) {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", base+".doc")
	} else {
		skipped = false
		fmt.Fprintf(w, "  downloading: %s\n", base+".doc")
		err := runStage("download", base, w,
			func() error { return p.source.DownloadWordExport(ctx, page.ID, docPath) },
			func() { os.Remove(docPath) },
		)
		if err != nil {
			return false, err
		}
	}

	if stageExists(docxPath) {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", base+".docx")
	} else {
		skipped = false
		fmt.Fprintf(w, "  converting: %s\n", base+".docx")
		err := runStage("convert", base, w,
			func() error { return p.suite.ConvertToDocx(docPath, dir) },
			func() { os.Remove(docxPath) },
		)
		if err != nil {
			return false, err
		}
	}

	if stageExists(mdPath) {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", base+".md")
	} else {
		skipped = false
		fmt.Fprintf(w, "  transcoding: %s\n", base+".md")
		err := runStage("transcode", base, w,
			func() error { return p.transcode(docxPath, mdPath, mediaDir, dir) },
			func() {
				os.Remove(mdPath)
				os.RemoveAll(mediaDir)
			},
		)
		if err != nil {
			return false, err
		}
	}

	return skipped, nil
}

// transcode runs pandoc and then relativizes the media links it wrote.
func (p *WordPipeline) transcode(docxPath, mdPath, mediaDir, dir string) error {
	if err := p.pandoc.Transcode(docxPath, mdPath, mediaDir); err != nil {
		return err
	}
	return stripDirPrefix(mdPath, dir)
}

// stripDirPrefix removes the page directory prefix pandoc bakes into
// --extract-media links, leaving paths that resolve relative to the
// Markdown file itself.
func stripDirPrefix(mdPath, dir string) error {
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", mdPath, err)
	}

	prefix := []byte(dir + string(os.PathSeparator))
	cleaned := bytes.ReplaceAll(data, prefix, nil)
	if bytes.Equal(cleaned, data) {
		return nil
	}
	return os.WriteFile(mdPath, cleaned, 0o644)
}
