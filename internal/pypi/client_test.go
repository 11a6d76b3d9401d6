package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersionOutcomes(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expectErr   string
		wantVersion string
	}{
		{
			name:        "200 with version",
			status:      http.StatusOK,
			body:        `{"info": {"version": "1.36.2"}}`,
			wantVersion: "1.36.2",
		},
		{
			name:      "200 without version",
			status:    http.StatusOK,
			body:      `{"info": {}}`,
			expectErr: "version information not found",
		},
		{
			name:      "non-200 status",
			status:    http.StatusNotFound,
			body:      `not found`,
			expectErr: "registry request failed with status 404",
		},
		{
			name:      "malformed body",
			status:    http.StatusOK,
			body:      `{`,
			expectErr: "failed to decode registry response",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/boto3/json", r.URL.Path)
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			client := NewClient(server.Client(), server.URL)
			version, err := client.LatestVersion(context.Background(), "boto3")

			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				// The wrap names the package so the callback reason
				// is self-explanatory.
				assert.Contains(t, err.Error(), "failed to get latest version for boto3")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantVersion, version)
		})
	}
}

func TestLatestVersionTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force a connection failure

	client := NewClient(nil, server.URL)
	version, err := client.LatestVersion(context.Background(), "boto3")

	require.Error(t, err)
	assert.Empty(t, version)
	assert.Contains(t, err.Error(), "failed to get latest version for boto3")
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil, "")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
}
