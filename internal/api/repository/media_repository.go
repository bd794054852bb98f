package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/pkg/logger"
)

// MediaRepository is the client for the audio synthesis service: per-article
// text-to-speech and multi-article podcast generation. Both return a locator
// to the uploaded audio object.
type MediaRepository interface {
	SynthesizeAudio(ctx context.Context, text string) (string, error)
	SynthesizePodcast(ctx context.Context, articleURLs []string) (string, error)
}

type mediaRepository struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
}

// NewMediaRepository creates a new instance of MediaRepository.
func NewMediaRepository(cfg *config.Config, log *logger.Logger) (MediaRepository, error) {
	timeout := 5 * time.Minute
	if cfg.Media.RequestTimeout != "" {
		parsed, err := time.ParseDuration(cfg.Media.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid media request_timeout: %w", err)
		}
		timeout = parsed
	}
	return &mediaRepository{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.Media.BaseURL,
		logger:  log,
	}, nil
}

type synthesizeAudioRequest struct {
	Text string `json:"text"`
}

type synthesizePodcastRequest struct {
	URLs []string `json:"urls"`
}

type synthesizeResponse struct {
	AudioURL string `json:"audio_url"`
}

func (r *mediaRepository) SynthesizeAudio(ctx context.Context, text string) (string, error) {
	return r.synthesize(ctx, "/tts", synthesizeAudioRequest{Text: text})
}

func (r *mediaRepository) SynthesizePodcast(ctx context.Context, articleURLs []string) (string, error) {
	return r.synthesize(ctx, "/podcast", synthesizePodcastRequest{URLs: articleURLs})
}

func (r *mediaRepository) synthesize(ctx context.Context, path string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call media service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		r.logger.Error("Media service returned non-OK response",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("path", path))
		return "", fmt.Errorf("media service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode media response: %w", err)
	}
	if out.AudioURL == "" {
		return "", fmt.Errorf("media service returned empty audio locator")
	}
	return out.AudioURL, nil
}
