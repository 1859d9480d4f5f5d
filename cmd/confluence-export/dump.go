package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confluence-export/internal/confluence"
	"github.com/pdiddy/confluence-export/internal/convert"
	"github.com/pdiddy/confluence-export/internal/export"
	"github.com/pdiddy/confluence-export/internal/ledger"
	"github.com/pdiddy/confluence-export/internal/logger"
	"github.com/pdiddy/confluence-export/internal/office"
	"github.com/pdiddy/confluence-export/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "confluence-export/0.1"
	ledgerFile       = "export.db"
)

var dumpCmd = &cobra.Command{
	Use:   "dump URL USERNAME TOKEN OUT_DIR",
	Short: "Export spaces into a Markdown directory tree",
	Long: `Dump walks every space of the instance (or one space with --space),
exports each page, and writes OUT_DIR/<space>/.../<title>.md mirroring the
page hierarchy. A page with children becomes a directory holding its
children, with the page itself as home.md; each space root's home.md gains
an index linking every exported page, and every page is recorded in
OUT_DIR/export.db.

The default word backend runs each page through the instance's legacy Word
export, soffice (or libreoffice), and pandoc, extracting embedded media next
to the Markdown. The storage backend converts page bodies in-process without
external tools or media extraction. Already-exported pages are skipped, so
an interrupted dump can simply be re-run.`,
	Args: cobra.ExactArgs(4),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("space", "", "restrict the dump to a single space key")
	dumpCmd.Flags().String("backend", string(types.BackendWord), "conversion backend: word or storage")
	dumpCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	instanceURL, username, token, outDir := args[0], args[1], args[2], args[3]

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	spaceKey, _ := cmd.Flags().GetString("space")
	backend, _ := cmd.Flags().GetString("backend")

	cfg := types.DumpConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		OutDir:   outDir,
		SpaceKey: spaceKey,
		Backend:  types.ConversionBackend(backend),
	}

	client, err := confluence.NewClient(instanceURL, username, token, cfg.HTTPConfig)
	if err != nil {
		return err
	}

	exporter, err := buildExporter(cfg.Backend, client)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	led, err := ledger.Open(filepath.Join(outDir, ledgerFile))
	if err != nil {
		return err
	}
	defer led.Close()

	logger.Info("starting dump", map[string]interface{}{
		"instance": instanceURL,
		"out_dir":  outDir,
		"space":    spaceKey,
		"backend":  string(cfg.Backend),
	})

	dumper := export.NewDumper(client, exporter, led, cfg, os.Stdout)
	summary, err := dumper.Dump(context.Background())
	if err != nil {
		logger.Error("dump aborted", err)
		return err
	}

	color.New(color.FgGreen).Printf("Done: %d space(s), %d page(s) exported, %d already present\n",
		summary.SpacesDumped, summary.Exported, summary.Present)
	return nil
}

// buildExporter assembles the conversion backend. The word pipeline needs a
// local office suite and pandoc on PATH; storage runs entirely in-process.
func buildExporter(backend types.ConversionBackend, client *confluence.Client) (convert.Exporter, error) {
	switch backend {
	case types.BackendWord, "":
		suite, err := office.DetectSuite()
		if err != nil {
			return nil, err
		}
		pandoc, err := office.DetectPandoc()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Using office suite: %s\n", suite.Name())
		return convert.NewWordPipeline(client, suite, pandoc), nil
	case types.BackendStorage:
		return convert.NewStoragePipeline(), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q: use word or storage", backend)
	}
}
