package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/internal/api/dto"
	"bitewise-api/pkg/logger"
)

// NewsSearchRepository is the client for the search/crawl service.
type NewsSearchRepository interface {
	Search(ctx context.Context, req *dto.CrawlSearchRequest) (*dto.CrawlSearchResponse, error)
	DailyDigest(ctx context.Context, kind, location string) (*dto.DigestResponse, error)
}

type newsSearchRepository struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
}

// NewNewsSearchRepository creates a new instance of NewsSearchRepository.
func NewNewsSearchRepository(cfg *config.Config, log *logger.Logger) (NewsSearchRepository, error) {
	timeout := 60 * time.Second
	if cfg.Search.RequestTimeout != "" {
		parsed, err := time.ParseDuration(cfg.Search.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid search request_timeout: %w", err)
		}
		timeout = parsed
	}
	return &newsSearchRepository{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.Search.CrawlServiceBaseURL,
		logger:  log,
	}, nil
}

func (r *newsSearchRepository) Search(ctx context.Context, req *dto.CrawlSearchRequest) (*dto.CrawlSearchResponse, error) {
	var resp dto.CrawlSearchResponse
	if err := r.post(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *newsSearchRepository) DailyDigest(ctx context.Context, kind, location string) (*dto.DigestResponse, error) {
	path := "/digest?kind=" + url.QueryEscape(kind)
	if location != "" {
		path += "&location=" + url.QueryEscape(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest request: %w", err)
	}

	httpResp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call crawl service: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("crawl service returned %d: %s", httpResp.StatusCode, string(body))
	}

	var resp dto.DigestResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode digest response: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("malformed digest response: %w", err)
	}
	return &resp, nil
}

func (r *newsSearchRepository) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call crawl service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		r.logger.Error("Crawl service returned non-OK response",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("path", path))
		return fmt.Errorf("crawl service returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode crawl response: %w", err)
	}
	return nil
}
