// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the per-page export pipeline with pluggable
// backends. The word backend reproduces the proven migration route (legacy
// .doc download, office conversion, pandoc transcode); the storage backend
// converts the page body in-process.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pdiddy/confluence-export/internal/logger"
	"github.com/pdiddy/confluence-export/pkg/types"
)

// RetryDelay is the fixed wait before a failed stage runs its single retry.
// Declared as a var so tests can shorten it.
var RetryDelay = 2 * time.Second

// Exporter writes the Markdown rendition of one page into dir under the
// given base name, emitting per-stage status lines to w. Implementations
// skip stages whose output already exists; skipped reports whether every
// stage was skipped.
type Exporter interface {
	Export(ctx context.Context, page *types.Page, dir, base string, w io.Writer) (skipped bool, err error)
}

// stageExists reports whether a stage's output file is already on disk.
func stageExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// runStage executes one pipeline stage under the single-retry policy: on
// failure the stage's partial output is removed, the fixed delay elapses,
// and the stage runs once more. A second failure aborts the page.
func runStage(name, base string, w io.Writer, fn func() error, cleanup func()) error {
	err := fn()
	if err == nil {
		return nil
	}

	cleanup()
	fmt.Fprintf(w, "  warning: %s failed, retrying in %s (%v)\n", name, RetryDelay, err)
	logger.Warn("stage retry", map[string]interface{}{
		"stage": name,
		"page":  base,
	})
	time.Sleep(RetryDelay)

	if err := fn(); err != nil {
		cleanup()
		return fmt.Errorf("%s stage for %s: %w", name, base, err)
	}
	return nil
}
