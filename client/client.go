// Package client fetches series data from a remote viewer instance, so
// one machine can compose figures from files loaded on another.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/echemview/plot"
)

// Remote is an HTTP client for another instance's data API.
type Remote struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a remote client with a default timeout.
func New(baseURL string) *Remote {
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Files lists the remote instance's loaded files.
func (r *Remote) Files(ctx context.Context) ([]plot.FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.BaseURL+"/files", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create files request: %v", err)
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("files request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list files: %d %s", resp.StatusCode, string(body))
	}

	var listing struct {
		Files []plot.FileInfo `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode file listing: %v", err)
	}
	return listing.Files, nil
}

// Fetch retrieves one file's samples from the remote instance. It
// satisfies plot.FetchFunc, so a remote store plugs into the composer
// the same way a local one does.
func (r *Remote) Fetch(ctx context.Context, fileID, xCol, yCol string, cycles []int) (plot.Points, error) {
	params := url.Values{}
	params.Set("x", xCol)
	params.Set("y", yCol)
	if len(cycles) > 0 {
		strs := make([]string, len(cycles))
		for i, c := range cycles {
			strs[i] = strconv.Itoa(c)
		}
		params.Set("cycles", strings.Join(strs, ","))
	}

	endpoint := fmt.Sprintf("%s/data/%s?%s", r.BaseURL, url.PathEscape(fileID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return plot.Points{}, fmt.Errorf("failed to create data request: %v", err)
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return plot.Points{}, fmt.Errorf("data request for %s failed: %v", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return plot.Points{}, fmt.Errorf("failed to fetch %s: %d %s", fileID, resp.StatusCode, string(body))
	}

	var pts plot.Points
	if err := json.NewDecoder(resp.Body).Decode(&pts); err != nil {
		return plot.Points{}, fmt.Errorf("failed to decode data for %s: %v", fileID, err)
	}
	return pts, nil
}

func (r *Remote) client() *http.Client {
	if r.HTTP != nil {
		return r.HTTP
	}
	return http.DefaultClient
}
