package types

import "time"

// HTTPConfig holds shared HTTP settings for requests against the Confluence
// instance.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "confluence-export/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConversionBackend identifies how page content is turned into Markdown.
type ConversionBackend string

const (
	// BackendWord is the Word-export pipeline: download the legacy .doc
	// export, convert it to .docx with a local office suite, transcode to
	// Markdown with pandoc. Requires soffice and pandoc installed.
	BackendWord ConversionBackend = "word"

	// BackendStorage converts the page's storage-format XHTML body directly
	// to Markdown in-process. No external tools, but embedded media is not
	// extracted.
	BackendStorage ConversionBackend = "storage"
)

// DumpConfig holds settings for a space dump run.
type DumpConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutDir is the directory the page tree is written under.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// SpaceKey restricts the dump to a single space when non-empty.
	SpaceKey string `json:"space_key,omitempty" yaml:"space_key,omitempty"`

	// Backend selects the conversion backend: word or storage.
	Backend ConversionBackend `json:"backend" yaml:"backend"`
}
