package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitewise-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleBody = "The council voted late on Tuesday to approve the new transit plan " +
	"after months of public hearings. Supporters argued the expanded bus network would " +
	"cut commute times across the district, while opponents questioned the funding model " +
	"and warned of fare increases. Construction on the first corridor is expected to begin " +
	"next spring, with the full rollout planned over three years."

func newScraperLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func TestFetchContentExtractsArticleText(t *testing.T) {
	page := `<html><head><title>Transit plan approved</title></head><body>
		<div id="article"><p>` + articleBody + `</p></div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	repo := NewScraperRepository(newScraperLogger(t))
	content, err := repo.FetchContent(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, content, "approve the new transit plan")
	assert.NotContains(t, content, "<p>")
}

func TestFetchContentRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	repo := NewScraperRepository(newScraperLogger(t))
	_, err := repo.FetchContent(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchContentFailsOnEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><div>ok</div></body></html>"))
	}))
	defer srv.Close()

	repo := NewScraperRepository(newScraperLogger(t))
	_, err := repo.FetchContent(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestExtractReadableStripsMarkup(t *testing.T) {
	html := `<html><body><div><p>` + articleBody + `</p></div></body></html>`
	text := extractReadable(html)
	if text != "" {
		assert.False(t, strings.Contains(text, "<"), "expected plain text, got markup")
	}

	paras, err := extractParagraphs(html)
	require.NoError(t, err)
	assert.Contains(t, paras, "funding model")
}
