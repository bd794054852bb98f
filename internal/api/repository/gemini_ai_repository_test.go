package repository

import (
	"strings"
	"testing"

	"bitewise-api/internal/api/dto"

	"github.com/stretchr/testify/assert"
)

func TestParseTitleAndSummary(t *testing.T) {
	text := "**Title**: Markets rally on rate cut\n**Summary**: Stocks rose broadly after the announcement."

	title, summary := parseTitleAndSummary(text)
	assert.Equal(t, "Markets rally on rate cut", title)
	assert.Equal(t, "Stocks rose broadly after the announcement.", summary)
}

func TestParseTitleAndSummaryMissingSections(t *testing.T) {
	title, summary := parseTitleAndSummary("free-form answer with no markers")
	assert.Empty(t, title)
	assert.Empty(t, summary)
}

func TestParseSummaryAndDifficulty(t *testing.T) {
	text := "**Summary**: A short recap.\n**Reading Difficulty**: [medium]"

	summary, difficulty := parseSummaryAndDifficulty(text)
	assert.Equal(t, "A short recap.", summary)
	assert.Equal(t, "medium", difficulty)
}

func TestParseSummaryKeepsBulletDashes(t *testing.T) {
	text := "**Summary**:\n- first point\n- second point\n**Reading Difficulty**: easy"

	summary, difficulty := parseSummaryAndDifficulty(text)
	assert.Equal(t, "- first point\n- second point", summary)
	assert.Equal(t, "easy", difficulty)
}

func TestExtractSectionUnboundedEnd(t *testing.T) {
	assert.Equal(t, "tail text", extractSection("head **X**: tail text", "**X**:", ""))
	assert.Empty(t, extractSection("no marker here", "**X**:", ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}

func TestBuildRelevancePromptListsIndexedTitles(t *testing.T) {
	prompt := BuildRelevancePrompt([]dto.IndexedTitle{
		{Index: 0, Text: "first headline"},
		{Index: 1, Text: "second headline"},
	}, "energy prices")

	assert.Contains(t, prompt, "energy prices")
	assert.Contains(t, prompt, "0: first headline")
	assert.Contains(t, prompt, "1: second headline")
}

func TestBuildSummarizeCollectionPromptStyles(t *testing.T) {
	articles := []dto.ArticleForSummary{{Title: "headline", Content: "body"}}
	prefs := dto.StylePreferences{Length: "short", Tone: "formal", Format: "highlights", JargonAllowed: false}

	prompt := BuildSummarizeCollectionPrompt(articles, prefs, false)
	assert.Contains(t, prompt, "headline")
	assert.Contains(t, prompt, "**Title**:")
	assert.Contains(t, prompt, "**Summary**:")
	assert.Contains(t, strings.ToLower(prompt), "short")
}
