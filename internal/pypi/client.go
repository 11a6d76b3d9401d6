// Package pypi resolves a package's latest published version from the PyPI
// JSON API. Resolution is always fresh; two requests moments apart may
// legitimately see different versions.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

// DefaultBaseURL is the public PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// Resolver answers "what is the latest version of this package right now".
type Resolver interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// Client is the HTTP-backed Resolver.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a Client using the given http.Client. A nil client falls
// back to http.DefaultClient; an empty baseURL falls back to DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// metadata is the slice of the PyPI response this client cares about.
type metadata struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// LatestVersion fetches the package's current latest version. Every failure
// mode (transport, non-200 status, missing version field, malformed body) is
// wrapped with the package name and the underlying cause; it never returns an
// empty version with a nil error.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	version, err := c.latestVersion(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to get latest version for %s: %w", name, err)
	}
	return version, nil
}

func (c *Client) latestVersion(ctx context.Context, name string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	url := fmt.Sprintf("%s/%s/json", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	logger.Info("Querying package registry.", "package", name, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("registry request failed with status %d", resp.StatusCode)
	}

	var meta metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("failed to decode registry response: %w", err)
	}
	if meta.Info.Version == "" {
		return "", fmt.Errorf("version information not found in registry response")
	}

	logger.Info("Resolved latest version.", "package", name, "version", meta.Info.Version)
	return meta.Info.Version, nil
}
