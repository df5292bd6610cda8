// Package search wraps the external sound-search provider. Provider
// failures never surface to callers: a deterministic mock result set is
// served instead so the client UI always gets a well-formed response.
package search

import (
	"context"
	"errors"
	"fmt"
)

// ErrSoundNotFound indicates the provider has no sound with the given ID
var ErrSoundNotFound = errors.New("sound not found")

// Result sources
const (
	SourceFreesound = "freesound"
	SourceMock      = "mock"
)

// Result is one candidate track from the search provider
type Result struct {
	ID          string  `json:"id"`
	ExternalID  string  `json:"external_id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Duration    int     `json:"duration"` // seconds
	PreviewURL  *string `json:"preview_url"`
	DownloadURL *string `json:"download_url"`
	License     string  `json:"license"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
}

// Results is the paginated search response envelope
type Results struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
	Next       *string  `json:"next"`
	Previous   *string  `json:"previous"`
	Message    string   `json:"message,omitempty"`
}

// Provider searches the external sound catalog
type Provider interface {
	Search(ctx context.Context, query string, page, pageSize int) (*Results, error)
}

// mockResults builds the deterministic fallback set: five synthetic
// entries echoing the query, tagged with the mock source.
func mockResults(query string) *Results {
	results := make([]Result, 0, 5)
	for i := 1; i <= 5; i++ {
		results = append(results, Result{
			ID:          fmt.Sprintf("mock_sound_%d", i),
			ExternalID:  fmt.Sprintf("mock_%d", i),
			Title:       fmt.Sprintf("Sample Track %d - %s", i, query),
			Artist:      fmt.Sprintf("Artist %d", i),
			Duration:    180 + i*15,
			License:     "Creative Commons",
			Description: fmt.Sprintf("Mock sound for testing - searched for %q", query),
			Source:      SourceMock,
		})
	}
	return &Results{
		Results:    results,
		TotalCount: 5,
		Message:    "Using mock data - search provider unavailable",
	}
}
