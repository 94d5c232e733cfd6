package program

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/fitnessbro/platform/internal/errors"
)

// VideoSearcher finds a demonstration video for an exercise name.
type VideoSearcher interface {
	Search(ctx context.Context, exercise string) (string, error)
}

// YouTubeClient is a stateless client for the YouTube search API.
type YouTubeClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

var _ VideoSearcher = (*YouTubeClient)(nil)

// NewYouTubeClient constructs a search client. baseURL is the full search
// endpoint.
func NewYouTubeClient(apiKey, baseURL string) *YouTubeClient {
	return &YouTubeClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// Search returns the watch URL of the top result for the exercise, or
// NotFound when the API returns no items.
func (c *YouTubeClient) Search(ctx context.Context, exercise string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", exercise+" exercice technique")
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", apperrors.Internal("build video search request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Upstream("video search request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Upstream("read video search response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Upstream(fmt.Sprintf("video search returned status %d", resp.StatusCode), nil)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.Upstream("decode video search response", err)
	}
	if len(parsed.Items) == 0 || parsed.Items[0].ID.VideoID == "" {
		return "", apperrors.NotFound("no video found for exercise")
	}
	return "https://www.youtube.com/watch?v=" + parsed.Items[0].ID.VideoID, nil
}
