// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pdiddy/confluence-export/pkg/types"
)

// StoragePipeline converts the page's storage-format XHTML body straight to
// Markdown in-process. One stage, no sibling artifacts, no external tools.
// Embedded media stays on the Confluence instance; attachment links keep
// pointing there.
type StoragePipeline struct{}

// NewStoragePipeline returns the storage-format exporter.
func NewStoragePipeline() *StoragePipeline {
	return &StoragePipeline{}
}

// Export writes base+".md" under dir from the page body, skipping when the
// file already exists.
func (p *StoragePipeline) Export(ctx context.Context, page *types.Page, dir, base string, w io.Writer) (bool, error) {
	mdPath := filepath.Join(dir, base+".md")

	if stageExists(mdPath) {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", base+".md")
		return true, nil
	}

	fmt.Fprintf(w, "  converting: %s\n", base+".md")
	err := runStage("storage convert", base, w,
		func() error { return writeMarkdown(page.Body, mdPath) },
		func() { os.Remove(mdPath) },
	)
	if err != nil {
		return false, err
	}
	return false, nil
}

func writeMarkdown(body, mdPath string) error {
	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return fmt.Errorf("converting storage body: %w", err)
	}
	return os.WriteFile(mdPath, []byte(md), 0o644)
}
