package program

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/fitnessbro/platform/internal/errors"
)

func TestYouTubeClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got == "" {
			t.Errorf("missing q parameter")
		}
		if r.URL.Query().Get("key") != "api-key" {
			t.Errorf("missing api key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":{"videoId":"abc123"}}]}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient("api-key", srv.URL)
	url, err := c.Search(context.Background(), "squat")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if url != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected url %q", url)
	}
}

func TestYouTubeClientNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient("api-key", srv.URL)
	_, err := c.Search(context.Background(), "squat")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestYouTubeClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewYouTubeClient("api-key", srv.URL)
	_, err := c.Search(context.Background(), "squat")
	if !apperrors.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
