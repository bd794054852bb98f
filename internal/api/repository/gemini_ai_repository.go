package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/internal/api/dto"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/preference"
	"bitewise-api/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GenerationRepository is the client for the generation service: article
// summarization, daily overviews and relevance classification.
type GenerationRepository interface {
	SummarizeOne(ctx context.Context, article dto.ArticleForSummary, prefs dto.StylePreferences) (*dto.SummarizeOneResult, error)
	SummarizeMany(ctx context.Context, articles []dto.ArticleForSummary, prefs dto.StylePreferences, dashboard bool) (*dto.SummarizeManyResult, error)
	DailyOverview(ctx context.Context, articles []dto.ArticleForSummary) (string, error)
	// ClassifyRelevance returns the indices the classifier considers relevant
	// to the query, most relevant first.
	ClassifyRelevance(ctx context.Context, titles []dto.IndexedTitle, query string) ([]int, error)
}

type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of GenerationRepository backed
// by the Google Gemini API.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (GenerationRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) SummarizeOne(ctx context.Context, article dto.ArticleForSummary, prefs dto.StylePreferences) (*dto.SummarizeOneResult, error) {
	prompt := BuildSummarizeArticlePrompt(article, prefs)

	text, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	summary, difficultyLabel := parseSummaryAndDifficulty(text)
	difficulty, err := preference.CodeFor(preference.EnumDifficulty, strings.ToLower(difficultyLabel))
	if err != nil {
		r.logger.Warn("Unrecognized difficulty label, defaulting to medium",
			logger.StringField("label", difficultyLabel))
		difficulty = 1
	}

	return &dto.SummarizeOneResult{Summary: summary, Difficulty: difficulty}, nil
}

func (r *geminiAIRepository) SummarizeMany(ctx context.Context, articles []dto.ArticleForSummary, prefs dto.StylePreferences, dashboard bool) (*dto.SummarizeManyResult, error) {
	prompt := BuildSummarizeCollectionPrompt(articles, prefs, dashboard)

	text, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	title, summary := parseTitleAndSummary(text)
	if summary == "" {
		return nil, fmt.Errorf("generation response missing summary section: %q", truncate(text, 120))
	}
	return &dto.SummarizeManyResult{Title: title, Summary: summary}, nil
}

func (r *geminiAIRepository) DailyOverview(ctx context.Context, articles []dto.ArticleForSummary) (string, error) {
	prompt := BuildDailyOverviewPrompt(articles)

	text, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (r *geminiAIRepository) ClassifyRelevance(ctx context.Context, titles []dto.IndexedTitle, query string) ([]int, error) {
	prompt := BuildRelevancePrompt(titles, query)

	text, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The classifier answers with a bare comma-separated index list. Anything
	// non-numeric between commas is skipped rather than failing the call.
	var indices []int
	for _, part := range strings.Split(strings.TrimSpace(text), ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		indices = append(indices, idx)
	}
	if indices == nil {
		return nil, fmt.Errorf("relevance response contained no indices: %q", truncate(text, 120))
	}
	return indices, nil
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}

	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API",
			logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	text = strings.TrimPrefix(strings.TrimSpace(text), "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text), nil
}

// parseTitleAndSummary extracts the sections from the fixed
// "**Title**: ... **Summary**: ..." response contract.
func parseTitleAndSummary(text string) (string, string) {
	title := extractSection(text, "**Title**:", "**Summary**:")
	summary := extractSection(text, "**Summary**:", "")
	return title, summary
}

// parseSummaryAndDifficulty extracts the sections from the fixed
// "**Summary**: ... **Reading Difficulty**: ..." response contract.
func parseSummaryAndDifficulty(text string) (string, string) {
	summary := extractSection(text, "**Summary**:", "**Reading Difficulty**:")
	difficulty := extractSection(text, "**Reading Difficulty**:", "")
	difficulty = strings.Trim(difficulty, "[]- \n")
	return summary, difficulty
}

func extractSection(text, start, end string) string {
	i := strings.Index(text, start)
	if i < 0 {
		return ""
	}
	section := text[i+len(start):]
	if end != "" {
		if j := strings.Index(section, end); j >= 0 {
			section = section[:j]
		}
	}
	return strings.TrimSpace(section)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
