// Package mlflow adapts an MLflow tracking server's model registry to the
// model loader and catalog ports.
package mlflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/infrastructure/httpclient"
)

// ErrUnsupportedURI is returned for tracking URIs the REST client cannot reach.
var ErrUnsupportedURI = errors.New("mlflow: tracking URI is not an http(s) server")

// Client is a minimal MLflow REST API 2.0 client.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

// NewClient creates a client for the tracking server at trackingURI.
func NewClient(trackingURI string, hc *httpclient.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(trackingURI))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURI, trackingURI)
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(u.String(), "/"),
	}, nil
}

// modelVersion is the registry's JSON representation of a model version.
type modelVersion struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	CurrentStage string `json:"current_stage"`
	RunID        string `json:"run_id"`
	Description  string `json:"description"`
	Source       string `json:"source"`
	Status       string `json:"status"`
}

func (v modelVersion) toDomain() model.ModelVersion {
	return model.ModelVersion{
		Name:        v.Name,
		Version:     v.Version,
		Stage:       v.CurrentStage,
		RunID:       v.RunID,
		Description: v.Description,
	}
}

type versionsResponse struct {
	ModelVersions []modelVersion `json:"model_versions"`
	NextPageToken string         `json:"next_page_token"`
}

var jsonHeader = http.Header{"Content-Type": []string{"application/json"}}

// LatestVersions returns the newest version of name in each of the given stages.
func (c *Client) LatestVersions(ctx context.Context, name string, stages ...string) ([]modelVersion, error) {
	body, err := json.Marshal(struct {
		Name   string   `json:"name"`
		Stages []string `json:"stages,omitempty"`
	}{Name: name, Stages: stages})
	if err != nil {
		return nil, err
	}

	data, err := c.http.Do(ctx, http.MethodPost, c.baseURL+"/api/2.0/mlflow/registered-models/get-latest-versions", body, jsonHeader)
	if err != nil {
		return nil, fmt.Errorf("mlflow: get latest versions of %s: %w", name, err)
	}

	var resp versionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("mlflow: decode latest versions: %w", err)
	}
	return resp.ModelVersions, nil
}

// SearchVersions returns every registered version of name, following pagination.
func (c *Client) SearchVersions(ctx context.Context, name string) ([]modelVersion, error) {
	var (
		all   []modelVersion
		token string
	)
	for {
		q := url.Values{}
		q.Set("filter", fmt.Sprintf("name='%s'", name))
		if token != "" {
			q.Set("page_token", token)
		}

		data, err := c.http.Get(ctx, c.baseURL+"/api/2.0/mlflow/model-versions/search?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("mlflow: search versions of %s: %w", name, err)
		}

		var resp versionsResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("mlflow: decode version search: %w", err)
		}
		all = append(all, resp.ModelVersions...)

		if resp.NextPageToken == "" || resp.NextPageToken == token {
			return all, nil
		}
		token = resp.NextPageToken
	}
}

// DownloadArtifact fetches one artifact of a run through the server's artifact proxy.
func (c *Client) DownloadArtifact(ctx context.Context, runID, path string) ([]byte, error) {
	q := url.Values{}
	q.Set("run_id", runID)
	q.Set("path", path)

	data, err := c.http.Get(ctx, c.baseURL+"/get-artifact?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mlflow: download %s from run %s: %w", path, runID, err)
	}
	return data, nil
}

// highestVersion picks the version with the largest numeric version number.
// Non-numeric versions are ignored.
func highestVersion(versions []modelVersion) (modelVersion, bool) {
	var (
		best  modelVersion
		bestN = -1
	)
	for _, v := range versions {
		n, err := strconv.Atoi(v.Version)
		if err != nil || n < 0 {
			continue
		}
		if n > bestN {
			best, bestN = v, n
		}
	}
	return best, bestN >= 0
}

// artifactDir derives the run-relative directory of a logged model from the
// version's source URI. Unknown layouts fall back to "model".
func artifactDir(source string) string {
	switch {
	case strings.HasPrefix(source, "runs:/"):
		rest := strings.TrimPrefix(source, "runs:/")
		if i := strings.Index(rest, "/"); i >= 0 && i < len(rest)-1 {
			return strings.Trim(rest[i+1:], "/")
		}
	case strings.Contains(source, "/artifacts/"):
		rest := source[strings.LastIndex(source, "/artifacts/")+len("/artifacts/"):]
		if rest = strings.Trim(rest, "/"); rest != "" {
			return rest
		}
	}
	return "model"
}
