// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/confluence-export/internal/confluence"
	"github.com/pdiddy/confluence-export/pkg/types"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces URL",
	Short: "List the spaces an instance exposes",
	Long: `Spaces lists up to 500 spaces of the instance with their home page ids,
useful for picking a --space key before a dump. Credentials come from
--username/--token, then the CONFLUENCE_EXPORT_USERNAME and
CONFLUENCE_EXPORT_TOKEN environment (or the config file), then the
.secrets/ directory; with none set the request is anonymous.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpaces,
}

func init() {
	spacesCmd.Flags().String("username", "", "Confluence username")
	spacesCmd.Flags().String("token", "", "API token or password")
	spacesCmd.Flags().String("format", "table", "output format: table, yaml, or json")
	spacesCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(spacesCmd)
}

func runSpaces(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	token, _ := cmd.Flags().GetString("token")
	format, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	if username == "" {
		username = viper.GetString("username")
	}
	if token == "" {
		token = viper.GetString("token")
	}
	username = secretDefault("confluence-username", username)
	token = secretDefault("confluence-token", token)

	client, err := confluence.NewClient(args[0], username, token, types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	})
	if err != nil {
		return err
	}

	spaces, err := client.Spaces(context.Background())
	if err != nil {
		return err
	}

	return formatSpaces(spaces, format)
}

func formatSpaces(spaces []types.Space, format string) error {
	switch format {
	case "table", "":
		if len(spaces) == 0 {
			fmt.Println("No spaces found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-12s  %-40s  %s\n", "Key", "Name", "Homepage")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 64))

		for _, s := range spaces {
			name := s.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			home := s.HomepageID
			if home == "" {
				home = "(none)"
			}
			fmt.Fprintf(os.Stdout, "%-12s  %-40s  %s\n", s.Key, name, home)
		}

		fmt.Fprintf(os.Stdout, "\n%d space(s)\n", len(spaces))
		return nil
	case "yaml":
		data, err := yaml.Marshal(spaces)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(spaces)
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml, or json", format)
	}
}
