// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Space is a named collection of hierarchical pages in the Confluence
// instance.
type Space struct {
	// Key is the short space key (e.g. "ENG").
	Key string `json:"key" yaml:"key"`

	// Name is the human-readable space name.
	Name string `json:"name" yaml:"name"`

	// HomepageID is the id of the space's root page. Empty when the space
	// has no home page; such spaces cannot be walked.
	HomepageID string `json:"homepage_id,omitempty" yaml:"homepage_id,omitempty"`
}

// Page is a single document node: a title, storage-format content, and zero
// or more child pages reachable through the API.
type Page struct {
	// ID is the opaque page id assigned by Confluence.
	ID string `json:"id" yaml:"id"`

	// Title is the page title. Not guaranteed to be path-safe.
	Title string `json:"title" yaml:"title"`

	// Body is the storage-format XHTML of the page, fetched with the
	// body.storage expand. Consumed by the storage conversion backend.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

// ExportRecord is one row of the export ledger: a page that was processed
// during a dump run.
type ExportRecord struct {
	// SpaceKey is the key of the space the page belongs to.
	SpaceKey string `json:"space_key" yaml:"space_key"`

	// PageID is the Confluence page id.
	PageID string `json:"page_id" yaml:"page_id"`

	// Title is the raw page title.
	Title string `json:"title" yaml:"title"`

	// Path is the Markdown file path relative to the output directory,
	// with forward slashes.
	Path string `json:"path" yaml:"path"`

	// ChildCount is the number of child pages the page had at export time.
	ChildCount int `json:"child_count" yaml:"child_count"`

	// ExportedAt is when the page finished exporting.
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
}
