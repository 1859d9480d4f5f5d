// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pdiddy/confluence-export/internal/sanitize"
	"github.com/pdiddy/confluence-export/pkg/types"
)

// ErrDuplicatePage reports a page id encountered twice in one run. Ids are
// unique in a well-formed page tree, so a duplicate means the instance
// returned a cycle or corrupt data; the run aborts rather than export the
// same page twice.
var ErrDuplicatePage = errors.New("duplicate page id")

// dumpPage exports one page and recurses into its children, depth-first in
// API order. parents carries the ancestor chain starting with the space
// key; the last element is the raw title of the parent page, everything
// before it is already sanitized.
func (d *Dumper) dumpPage(ctx context.Context, id string, parents []string) error {
	if _, dup := d.seen[id]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicatePage, id)
	}

	page, err := d.client.PageByID(ctx, id)
	if err != nil {
		return err
	}
	childIDs, err := d.client.ChildPageIDs(ctx, page.ID)
	if err != nil {
		return err
	}

	// A page with children exports as "home" inside the directory named
	// after its title; a leaf exports under its own title.
	base := sanitize.Sanitize(page.Title)
	if len(childIDs) > 0 {
		base = "home"
	}

	segments := make([]string, len(parents))
	for i, p := range parents {
		segments[i] = sanitize.Sanitize(p)
	}

	dir := filepath.Join(append([]string{d.cfg.OutDir}, segments...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	relOut := path.Join(append(append([]string{}, segments...), base+".md")...)
	fmt.Fprintf(d.out, "exporting: %s\n", relOut)

	skipped, err := d.exporter.Export(ctx, page, dir, base, d.out)
	if err != nil {
		return fmt.Errorf("exporting page %s (%q): %w", page.ID, page.Title, err)
	}
	if skipped {
		d.summary.Present++
	} else {
		d.summary.Exported++
	}

	d.seen[page.ID] = struct{}{}
	d.index = append(d.index, indexEntry{
		title: page.Title,
		rel:   path.Join(append(append([]string{}, segments[1:]...), base+".md")...),
	})

	if d.recorder != nil {
		rec := types.ExportRecord{
			SpaceKey:   d.space.Key,
			PageID:     page.ID,
			Title:      page.Title,
			Path:       relOut,
			ChildCount: len(childIDs),
			ExportedAt: time.Now().UTC(),
		}
		if err := d.recorder.Record(ctx, rec); err != nil {
			return err
		}
	}

	childParents := append(append([]string{}, segments...), page.Title)
	for _, childID := range childIDs {
		if err := d.dumpPage(ctx, childID, childParents); err != nil {
			return err
		}
	}
	return nil
}
