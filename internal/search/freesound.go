package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/rdelgatto/jukebox/internal/config"
	"github.com/rdelgatto/jukebox/internal/logger"
)

const (
	requestTimeout = 10 * time.Second

	// searchFields is the field list requested from the provider
	searchFields = "id,name,description,username,duration,previews,download,license"

	// minDurationFilter keeps short one-shot samples out of jukebox results
	minDurationFilter = "duration:[30 TO *]"

	maxDescriptionLen = 200
)

// FreesoundClient is a Provider backed by the Freesound API. It is
// constructed explicitly from configuration; with no client ID it serves
// mock results without going to the network.
type FreesoundClient struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	tokenCfg   *clientcredentials.Config
}

// NewFreesoundClient creates a search provider client from configuration
func NewFreesoundClient(cfg *config.SearchConfig) *FreesoundClient {
	return &FreesoundClient{
		baseURL:  cfg.BaseURL,
		clientID: cfg.ClientID,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		tokenCfg: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.BaseURL + "/oauth2/access_token/",
		},
	}
}

// freesoundSound is one entry of the provider's search response
type freesoundSound struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Username    string            `json:"username"`
	Duration    float64           `json:"duration"`
	Previews    map[string]string `json:"previews"`
	Download    string            `json:"download"`
	License     string            `json:"license"`
}

// freesoundSearchResponse is the provider's search response envelope
type freesoundSearchResponse struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []freesoundSound `json:"results"`
}

// Search queries the provider's text search. Any failure, including
// missing credentials, falls back to the deterministic mock result set.
func (c *FreesoundClient) Search(ctx context.Context, query string, page, pageSize int) (*Results, error) {
	if c.clientID == "" {
		logger.Log.Debug().
			Str("query", query).
			Msg("No search provider credentials, serving mock results")
		return mockResults(query), nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("fields", searchFields)
	params.Set("filter", minDurationFilter)
	params.Set("token", c.clientID)

	searchURL := c.baseURL + "/search/text/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return mockResults(query), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("query", query).
			Msg("Search provider request failed, serving mock results")
		return mockResults(query), nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error().
			Int("status", resp.StatusCode).
			Str("query", query).
			Msg("Search provider returned an error, serving mock results")
		return mockResults(query), nil
	}

	var payload freesoundSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Log.Error().
			Err(err).
			Str("query", query).
			Msg("Failed to decode search provider response, serving mock results")
		return mockResults(query), nil
	}

	return c.formatResults(&payload), nil
}

// GetSound fetches detail for a single sound using a client-credentials
// token. Unlike Search, callers see failures here: detail lookup is an
// explicit action on a known provider ID.
func (c *FreesoundClient) GetSound(ctx context.Context, soundID string) (*Result, error) {
	httpClient := c.tokenCfg.Client(ctx)

	params := url.Values{}
	params.Set("fields", searchFields)

	soundURL := fmt.Sprintf("%s/sounds/%s/?%s", c.baseURL, url.PathEscape(soundID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, soundURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sound detail request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sound detail: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSoundNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sound detail request failed with status %d", resp.StatusCode)
	}

	var sound freesoundSound
	if err := json.NewDecoder(resp.Body).Decode(&sound); err != nil {
		return nil, fmt.Errorf("failed to decode sound detail: %w", err)
	}

	result := c.formatSound(&sound)
	return &result, nil
}

// formatResults shapes the provider response for the jukebox frontend
func (c *FreesoundClient) formatResults(payload *freesoundSearchResponse) *Results {
	results := make([]Result, 0, len(payload.Results))
	for i := range payload.Results {
		results = append(results, c.formatSound(&payload.Results[i]))
	}
	return &Results{
		Results:    results,
		TotalCount: payload.Count,
		Next:       payload.Next,
		Previous:   payload.Previous,
	}
}

func (c *FreesoundClient) formatSound(sound *freesoundSound) Result {
	description := truncateDescription(sound.Description, maxDescriptionLen)

	result := Result{
		ID:          fmt.Sprintf("freesound_%d", sound.ID),
		ExternalID:  strconv.Itoa(sound.ID),
		Title:       sound.Name,
		Artist:      sound.Username,
		Duration:    int(sound.Duration),
		License:     sound.License,
		Description: description,
		Source:      SourceFreesound,
	}
	if result.Title == "" {
		result.Title = "Unknown Title"
	}
	if result.Artist == "" {
		result.Artist = "Unknown Artist"
	}
	if result.License == "" {
		result.License = "Unknown License"
	}
	if sound.Download != "" {
		download := sound.Download
		result.DownloadURL = &download
	}
	if preview := pickPreview(sound.Previews); preview != "" {
		result.PreviewURL = &preview
	}
	return result
}

// truncateDescription caps a description at maxRunes characters, cutting
// on a rune boundary so multibyte text never turns into invalid UTF-8
func truncateDescription(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}

// pickPreview selects the best available preview rendition
func pickPreview(previews map[string]string) string {
	for _, key := range []string{"preview-hq-mp3", "preview-lq-mp3", "preview-hq-ogg", "preview-lq-ogg"} {
		if url := previews[key]; url != "" {
			return url
		}
	}
	return ""
}
