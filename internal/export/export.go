// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export walks Confluence spaces and drives the per-page conversion
// pipeline, producing a Markdown tree that mirrors the page hierarchy.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/confluence-export/internal/convert"
	"github.com/pdiddy/confluence-export/internal/sanitize"
	"github.com/pdiddy/confluence-export/pkg/types"
)

// PageSource is the slice of the Confluence API the walker needs.
type PageSource interface {
	Spaces(ctx context.Context) ([]types.Space, error)
	PageByID(ctx context.Context, id string) (*types.Page, error)
	ChildPageIDs(ctx context.Context, id string) ([]string, error)
}

// Recorder persists one record per processed page.
type Recorder interface {
	Record(ctx context.Context, rec types.ExportRecord) error
}

// Summary holds the outcome of a dump run.
type Summary struct {
	SpacesDumped  int
	SpacesSkipped int
	Exported      int
	Present       int
}

// Pages returns the total number of pages processed.
func (s Summary) Pages() int {
	return s.Exported + s.Present
}

// Dumper orchestrates a dump: space enumeration, tree walk, per-page export,
// index and ledger writes. A Dumper runs once; the seen set spans all spaces
// of that run.
type Dumper struct {
	client   PageSource
	exporter convert.Exporter
	recorder Recorder // optional
	cfg      types.DumpConfig
	out      io.Writer

	seen    map[string]struct{}
	space   types.Space
	index   []indexEntry
	summary Summary
}

// indexEntry is one line of a space's home.md index.
type indexEntry struct {
	title string
	rel   string // path relative to the space root, forward slashes
}

// NewDumper wires a dump run. recorder may be nil to skip ledger writes.
func NewDumper(client PageSource, exporter convert.Exporter, recorder Recorder, cfg types.DumpConfig, out io.Writer) *Dumper {
	return &Dumper{
		client:   client,
		exporter: exporter,
		recorder: recorder,
		cfg:      cfg,
		out:      out,
		seen:     make(map[string]struct{}),
	}
}

// Dump enumerates the instance's spaces, restricted to cfg.SpaceKey when
// set, and exports each one. The first error aborts the run; the returned
// summary covers the work completed up to that point.
func (d *Dumper) Dump(ctx context.Context) (Summary, error) {
	spaces, err := d.client.Spaces(ctx)
	if err != nil {
		return d.summary, err
	}
	if len(spaces) == 0 {
		fmt.Fprintln(d.out, "no spaces found, check the instance URL and credentials")
		return d.summary, nil
	}

	for _, sp := range spaces {
		if d.cfg.SpaceKey != "" && sp.Key != d.cfg.SpaceKey {
			continue
		}
		if err := d.dumpSpace(ctx, sp); err != nil {
			return d.summary, err
		}
	}

	fmt.Fprintf(d.out, "\nDump summary: %d space(s) dumped, %d skipped, %d page(s) exported, %d already present\n",
		d.summary.SpacesDumped, d.summary.SpacesSkipped, d.summary.Exported, d.summary.Present)
	return d.summary, nil
}

func (d *Dumper) dumpSpace(ctx context.Context, sp types.Space) error {
	fmt.Fprintf(d.out, "space: %s\n", sp.Key)
	if sp.HomepageID == "" {
		fmt.Fprintf(d.out, "skipped: %s (no home page to walk from)\n", sp.Key)
		d.summary.SpacesSkipped++
		return nil
	}

	d.space = sp
	d.index = d.index[:0]

	if err := d.dumpPage(ctx, sp.HomepageID, []string{sp.Key}); err != nil {
		return err
	}
	if err := d.writeIndex(); err != nil {
		return err
	}

	d.summary.SpacesDumped++
	return nil
}

// writeIndex appends the collected page links to the space's home.md in a
// single write. When the home page had children the file already holds its
// content; otherwise this creates it.
func (d *Dumper) writeIndex() error {
	var b strings.Builder
	b.WriteString("\n## Pages\n\n")
	for _, e := range d.index {
		fmt.Fprintf(&b, "- [%s](%s)\n", e.title, e.rel)
	}

	path := filepath.Join(d.cfg.OutDir, sanitize.Sanitize(d.space.Key), "home.md")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening space index %s: %w", path, err)
	}
	_, werr := f.WriteString(b.String())
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("writing space index %s: %w", path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing space index %s: %w", path, cerr)
	}
	return nil
}
