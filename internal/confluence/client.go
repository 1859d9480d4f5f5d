// Package confluence implements the narrow slice of the Confluence REST API
// the exporter needs: space listing, page metadata, child enumeration, and
// the legacy Word export download. Listings are a single request capped at
// 500 results; pagination beyond that is out of scope.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/confluence-export/internal/httputil"
	"github.com/pdiddy/confluence-export/internal/logger"
	"github.com/pdiddy/confluence-export/pkg/types"
)

// listLimit caps space and child-page listings at one request's worth.
const listLimit = 500

// Client talks to a single Confluence instance over basic auth.
type Client struct {
	baseURL  string
	username string
	token    string
	ua       string
	http     *http.Client
}

// NewClient validates instanceURL and returns a client for it. Requests use
// cfg.Timeout and carry cfg.UserAgent. Empty credentials produce anonymous
// requests, which some instances accept for reads.
func NewClient(instanceURL, username, token string, cfg types.HTTPConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(instanceURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing instance URL %q: %w", instanceURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("instance URL %q must be http(s) with a host", instanceURL)
	}

	return &Client{
		baseURL:  u.String(),
		username: username,
		token:    token,
		ua:       cfg.UserAgent,
		http:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Spaces lists the instance's spaces with their home page ids.
func (c *Client) Spaces(ctx context.Context) ([]types.Space, error) {
	endpoint := fmt.Sprintf("%s/rest/api/space?start=0&limit=%d&expand=description.plain,homepage",
		c.baseURL, listLimit)

	var list spaceList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}

	spaces := make([]types.Space, len(list.Results))
	for i, r := range list.Results {
		spaces[i] = types.Space{Key: r.Key, Name: r.Name}
		if r.Homepage != nil {
			spaces[i].HomepageID = r.Homepage.ID
		}
	}
	return spaces, nil
}

// PageByID fetches one page with its storage-format body.
func (c *Client) PageByID(ctx context.Context, id string) (*types.Page, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage",
		c.baseURL, url.PathEscape(id))

	var res contentResult
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", id, err)
	}
	return &types.Page{ID: res.ID, Title: res.Title, Body: res.Body.Storage.Value}, nil
}

// ChildPageIDs returns the ids of the direct child pages of id, in the
// order the API returns them.
func (c *Client) ChildPageIDs(ctx context.Context, id string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s/child/page?limit=%d",
		c.baseURL, url.PathEscape(id), listLimit)

	var list contentList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", id, err)
	}

	ids := make([]string, len(list.Results))
	for i, r := range list.Results {
		ids[i] = r.ID
	}
	return ids, nil
}

// DownloadWordExport streams the legacy Word export of a page to destPath
// using a temporary file that is renamed into place on success. The endpoint
// lives outside the REST prefix. No retry here; the pipeline owns the retry
// of the download stage.
func (c *Client) DownloadWordExport(ctx context.Context, id, destPath string) error {
	endpoint := fmt.Sprintf("%s/exportword?pageId=%s", c.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("word export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// getJSON performs an authenticated GET with the shared retry policy and
// decodes the response body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.decorate(req)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.http, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.Debug("confluence request", map[string]interface{}{
		"url":    endpoint,
		"status": resp.StatusCode,
	})

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.token)
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
}

// Confluence REST JSON structures.
type spaceList struct {
	Results []spaceResult `json:"results"`
}

type spaceResult struct {
	Key      string      `json:"key"`
	Name     string      `json:"name"`
	Homepage *contentRef `json:"homepage"`
}

type contentRef struct {
	ID string `json:"id"`
}

type contentList struct {
	Results []contentRef `json:"results"`
}

type contentResult struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Body  contentBody `json:"body"`
}

type contentBody struct {
	Storage storageValue `json:"storage"`
}

type storageValue struct {
	Value string `json:"value"`
}
