// Package hfhub downloads model artifacts from a Hugging Face Hub repository.
package hfhub

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bibbank/fraud-detection/internal/infrastructure/httpclient"
)

// Client fetches repository files and keeps them in a local cache directory.
type Client struct {
	http     *httpclient.Client
	endpoint string
	token    string
	cacheDir string
}

// NewClient creates a hub client. An empty cacheDir disables caching.
func NewClient(endpoint, token, cacheDir string, hc *httpclient.Client) *Client {
	return &Client{
		http:     hc,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		cacheDir: cacheDir,
	}
}

// CachePath returns where a file of repo at revision is cached.
func (c *Client) CachePath(repo, revision, filename string) string {
	return filepath.Join(c.cacheDir, filepath.FromSlash(repo), revision, filepath.FromSlash(filename))
}

// Download returns the contents of filename in repo at revision. A cached copy is
// returned without touching the network.
func (c *Client) Download(ctx context.Context, repo, revision, filename string) ([]byte, error) {
	if c.cacheDir != "" {
		data, err := os.ReadFile(c.CachePath(repo, revision, filename))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("hfhub: read cache: %w", err)
		}
	}

	var header http.Header
	if c.token != "" {
		header = http.Header{"Authorization": []string{"Bearer " + c.token}}
	}

	u := fmt.Sprintf("%s/%s/resolve/%s/%s", c.endpoint, repo, url.PathEscape(revision), filename)
	data, err := c.http.Get(ctx, u, header)
	if err != nil {
		return nil, fmt.Errorf("hfhub: download %s from %s@%s: %w", filename, repo, revision, err)
	}

	if c.cacheDir != "" {
		if err := c.store(repo, revision, filename, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// store writes data to the cache through a temporary file so readers never see
// a partial artifact.
func (c *Client) store(repo, revision, filename string, data []byte) error {
	dst := c.CachePath(repo, revision, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("hfhub: create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return fmt.Errorf("hfhub: create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("hfhub: write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("hfhub: write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("hfhub: commit cache file: %w", err)
	}
	return nil
}
