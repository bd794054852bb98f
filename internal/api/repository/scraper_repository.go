package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bitewise-api/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/mauidude/go-readability"
)

// maxArticleBytes bounds how much of a page is read; news articles rarely
// exceed this and some pages stream forever.
const maxArticleBytes = 2 << 20

// ScraperRepository extracts full article text from a URL. It feeds the
// enrichment side of summarization: scraped text is what the content
// reconciler later writes back onto stored article stubs.
type ScraperRepository interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

type scraperRepository struct {
	client *http.Client
	logger *logger.Logger
}

// NewScraperRepository creates a new instance of ScraperRepository.
func NewScraperRepository(log *logger.Logger) ScraperRepository {
	return &scraperRepository{
		client: &http.Client{Timeout: 20 * time.Second},
		logger: log,
	}
}

func (r *scraperRepository) FetchContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bitewise-bot/1.0)")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s returned %d", url, resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	if content := extractReadable(string(html)); content != "" {
		return content, nil
	}

	// Readability gives up on some layouts; joining paragraph text is a
	// serviceable fallback.
	content, err := extractParagraphs(string(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}
	if content == "" {
		return "", fmt.Errorf("no extractable content at %s", url)
	}
	return content, nil
}

func extractReadable(html string) string {
	doc, err := readability.NewDocument(html)
	if err != nil {
		return ""
	}
	// Content returns the extracted article as HTML; strip the markup
	// with goquery to get plain text.
	inner, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content()))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(inner.Text())
	if len(text) < 200 {
		return ""
	}
	return text
}

func extractParagraphs(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " "), nil
}
