// Package translator implements the remote translation backends. Each client
// is a translate.Provider; which one a run uses is decided by configuration.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/translate"
)

// DefaultMyMemoryEndpoint is the free MyMemory translation API.
const DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemoryChunkSize is the request-size boundary the free tier tolerates.
const MyMemoryChunkSize = 500

// MyMemory translates via the free MyMemory API.
type MyMemory struct {
	endpoint string
	client   *http.Client
}

var _ translate.Provider = (*MyMemory)(nil)

// NewMyMemory wires an HTTP client; endpoint defaults to the public API.
func NewMyMemory(endpoint string, client *http.Client) *MyMemory {
	if endpoint == "" {
		endpoint = DefaultMyMemoryEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &MyMemory{endpoint: endpoint, client: client}
}

// Name identifies the provider inside the registry.
func (m *MyMemory) Name() string {
	return "mymemory"
}

// DefaultChunkSize reports the provider's request-size boundary.
func (m *MyMemory) DefaultChunkSize() int {
	return MyMemoryChunkSize
}

// TranslateChunk translates a single chunk. Rate limits and server faults are
// marked transient; client errors are permanent.
func (m *MyMemory) TranslateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", fmt.Sprintf("%s|%s", sourceLang, targetLang))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", domain.Transient(fmt.Errorf("mymemory request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", domain.Transient(fmt.Errorf("mymemory returned %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return "", &domain.ProviderError{Provider: m.Name(), Status: resp.StatusCode, Message: resp.Status}
	}

	var parsed struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus any `json:"responseStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.ProviderError{Provider: m.Name(), Message: fmt.Sprintf("decode response: %v", err)}
	}

	// MyMemory reports quota exhaustion inside a 200 body; the status field
	// arrives as a number on some responses and a quoted string on others.
	switch bodyStatus(parsed.ResponseStatus) {
	case http.StatusTooManyRequests, http.StatusForbidden:
		return "", domain.Transient(fmt.Errorf("mymemory quota exhausted"))
	}

	return parsed.ResponseData.TranslatedText, nil
}

func bodyStatus(v any) int {
	switch s := v.(type) {
	case float64:
		return int(s)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Retryable classifies a failure for the retry executor.
func (m *MyMemory) Retryable(err error) bool {
	return domain.IsTransient(err)
}
