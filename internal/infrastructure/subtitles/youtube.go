// Package subtitles acquires source text for a video in one requested
// language. Expected misses (no track, extraction disabled) are typed
// outcomes the orchestrator branches on, not faults.
package subtitles

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/ports"
)

// DefaultBaseURL is the public YouTube frontend serving watch pages and
// timedtext tracks.
const DefaultBaseURL = "https://www.youtube.com"

var titleExpr = regexp.MustCompile(`<title>(.*?)</title>`)

// Client extracts transcripts from watch pages. A track generated by speech
// recognition is used only when no manually created track exists.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.SubtitleSource = (*Client)(nil)

// NewClient wires an HTTP client; baseURL defaults to the public frontend.
func NewClient(baseURL string, client *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), client: client, logger: logger}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Fetch returns the transcript for videoID in exactly the requested language.
// domain.ErrNoTranscript means no track exists in that language;
// domain.ErrSubtitlesDisabled means the provider disabled extraction for the
// video; transient failures are marked for the caller's retry executor.
func (c *Client) Fetch(ctx context.Context, videoID, language string) (domain.Transcript, error) {
	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return domain.Transcript{}, err
	}

	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("video %s: %w", videoID, err)
	}

	track, ok := pickTrack(tracks, language)
	if !ok {
		return domain.Transcript{}, fmt.Errorf("video %s, language %s: %w", videoID, language, domain.ErrNoTranscript)
	}

	text, err := c.fetchTranscript(ctx, track.BaseURL)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("video %s: %w", videoID, err)
	}

	c.debug("transcript acquired", "video_id", videoID, "language", track.LanguageCode, "chars", len(text))

	return domain.Transcript{
		VideoID:     videoID,
		Language:    track.LanguageCode,
		Text:        text,
		Title:       extractTitle(page),
		Description: extractDescription(page),
	}, nil
}

func (c *Client) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	pageURL := fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domain.Transient(fmt.Errorf("fetch watch page: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("video %s: %w", videoID, domain.ErrNoTranscript)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", domain.Transient(fmt.Errorf("watch page returned %s", resp.Status))
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("watch page returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.Transient(fmt.Errorf("read watch page: %w", err))
	}

	return string(body), nil
}

func (c *Client) fetchTranscript(ctx context.Context, trackURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return "", fmt.Errorf("build track request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domain.Transient(fmt.Errorf("fetch track: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", domain.Transient(fmt.Errorf("track returned %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("track returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse track document: %w", err)
	}

	var lines []string
	doc.Find("text").Each(func(i int, sel *goquery.Selection) {
		// Track bodies are entity-escaped twice.
		line := html.UnescapeString(strings.TrimSpace(sel.Text()))
		if line != "" {
			lines = append(lines, line)
		}
	})

	return strings.Join(lines, "\n"), nil
}

// extractCaptionTracks locates the caption track list embedded in the watch
// page. A page without any track list means extraction is disabled.
func extractCaptionTracks(page string) ([]captionTrack, error) {
	const marker = `"captionTracks":`

	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, domain.ErrSubtitlesDisabled
	}

	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}
	return tracks, nil
}

func pickTrack(tracks []captionTrack, language string) (captionTrack, bool) {
	matches := func(code string) bool {
		return code == language || strings.HasPrefix(code, language+"-")
	}

	for _, t := range tracks {
		if matches(t.LanguageCode) && t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if matches(t.LanguageCode) {
			return t, true
		}
	}
	return captionTrack{}, false
}

func extractTitle(page string) string {
	match := titleExpr.FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	title := html.UnescapeString(match[1])
	return strings.TrimSpace(strings.TrimSuffix(title, "- YouTube"))
}

func extractDescription(page string) string {
	const marker = `"shortDescription":`

	idx := strings.Index(page, marker)
	if idx < 0 {
		return ""
	}

	var description string
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&description); err != nil {
		return ""
	}
	return description
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
