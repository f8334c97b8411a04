package subtitles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ContentHarvester/internal/domain"
)

const timedtextXML = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="2.1">Hello &amp;amp; welcome</text>
  <text start="2.1" dur="3.0">to the show</text>
  <text start="5.1" dur="1.0">  </text>
</transcript>`

func watchPage(baseURL string, tracks string) string {
	return fmt.Sprintf(`<html><head><title>Sample Video - YouTube</title></head>
<body><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":%s}},"videoDetails":{"shortDescription":"A sample\ndescription"}};</script></body></html>`,
		strings.ReplaceAll(tracks, "{base}", baseURL))
}

func newTestServer(t *testing.T, tracks string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage(srv.URL, tracks))
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timedtextXML)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReturnsTranscript(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, `[{"baseUrl":"{base}/timedtext?lang=ru","languageCode":"ru"}]`)
	client := NewClient(srv.URL, srv.Client(), nil)

	transcript, err := client.Fetch(context.Background(), "abc123", "ru")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := "Hello & welcome\nto the show"
	if transcript.Text != want {
		t.Fatalf("text = %q, want %q", transcript.Text, want)
	}
	if transcript.Language != "ru" {
		t.Fatalf("language = %q, want ru", transcript.Language)
	}
	if transcript.Title != "Sample Video" {
		t.Fatalf("title = %q, want Sample Video", transcript.Title)
	}
	if transcript.Description != "A sample\ndescription" {
		t.Fatalf("description = %q", transcript.Description)
	}
}

func TestFetchPrefersManualOverGenerated(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, `[
		{"baseUrl":"{base}/timedtext?v=asr","languageCode":"en","kind":"asr"},
		{"baseUrl":"{base}/timedtext?v=manual","languageCode":"en"}]`)
	client := NewClient(srv.URL, srv.Client(), nil)

	var gotTrack string
	orig := srv.Config.Handler
	srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/timedtext" {
			gotTrack = r.URL.Query().Get("v")
		}
		orig.ServeHTTP(w, r)
	})

	if _, err := client.Fetch(context.Background(), "abc123", "en"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotTrack != "manual" {
		t.Fatalf("fetched track %q, want manual", gotTrack)
	}
}

func TestFetchMatchesRegionalVariant(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, `[{"baseUrl":"{base}/timedtext?lang=en-GB","languageCode":"en-GB"}]`)
	client := NewClient(srv.URL, srv.Client(), nil)

	transcript, err := client.Fetch(context.Background(), "abc123", "en")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if transcript.Language != "en-GB" {
		t.Fatalf("language = %q, want en-GB", transcript.Language)
	}
}

func TestFetchMissingLanguage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, `[{"baseUrl":"{base}/timedtext?lang=en","languageCode":"en"}]`)
	client := NewClient(srv.URL, srv.Client(), nil)

	_, err := client.Fetch(context.Background(), "abc123", "ru")
	if !errors.Is(err, domain.ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestFetchSubtitlesDisabled(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>No Captions - YouTube</title></head><body></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, srv.Client(), nil)

	_, err := client.Fetch(context.Background(), "abc123", "en")
	if !errors.Is(err, domain.ErrSubtitlesDisabled) {
		t.Fatalf("expected ErrSubtitlesDisabled, got %v", err)
	}
}

func TestFetchUnknownVideo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, srv.Client(), nil)

	_, err := client.Fetch(context.Background(), "missing", "en")
	if !errors.Is(err, domain.ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript for 404, got %v", err)
	}
}

func TestFetchServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, srv.Client(), nil)

	_, err := client.Fetch(context.Background(), "abc123", "en")
	if !domain.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
