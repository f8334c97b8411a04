package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/translate"
)

// DefaultYandexEndpoint is the Yandex Cloud translation API.
const DefaultYandexEndpoint = "https://translate.api.cloud.yandex.net/translate/v2/translate"

// YandexChunkSize is the request-size boundary Yandex tolerates, 16x the
// MyMemory free tier.
const YandexChunkSize = 8000

// Yandex translates via the Yandex Cloud Translate v2 API.
type Yandex struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ translate.Provider = (*Yandex)(nil)

// NewYandex wires credentials and an HTTP client; endpoint defaults to the
// public API.
func NewYandex(endpoint, apiKey string, client *http.Client) *Yandex {
	if endpoint == "" {
		endpoint = DefaultYandexEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Yandex{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Name identifies the provider inside the registry.
func (y *Yandex) Name() string {
	return "yandex"
}

// DefaultChunkSize reports the provider's request-size boundary.
func (y *Yandex) DefaultChunkSize() int {
	return YandexChunkSize
}

// TranslateChunk translates a single chunk through the v2 endpoint.
func (y *Yandex) TranslateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if y.apiKey == "" {
		return "", fmt.Errorf("yandex client misconfigured: missing api key")
	}

	body, err := json.Marshal(map[string]any{
		"sourceLanguageCode": sourceLang,
		"targetLanguageCode": targetLang,
		"texts":              []string{text},
	})
	if err != nil {
		return "", fmt.Errorf("marshal yandex payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, y.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+y.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", domain.Transient(fmt.Errorf("yandex request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", domain.Transient(fmt.Errorf("yandex returned %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.ProviderError{
			Provider: y.Name(),
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(payload)),
		}
	}

	var parsed struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.ProviderError{Provider: y.Name(), Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Translations) == 0 {
		return "", &domain.ProviderError{Provider: y.Name(), Message: "response carried no translations"}
	}

	return parsed.Translations[0].Text, nil
}

// Retryable classifies a failure for the retry executor.
func (y *Yandex) Retryable(err error) bool {
	return domain.IsTransient(err)
}
