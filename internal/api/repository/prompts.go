package repository

import (
	"fmt"
	"strings"

	"bitewise-api/internal/api/dto"
)

// formatInstruction returns the style addendum for a format preference along
// with a jargon clause when plain language was requested.
func formatInstruction(prefs dto.StylePreferences) string {
	var instruction string
	switch prefs.Format {
	case "bullets":
		instruction = "Format the response as a list of concise bullet points that cover key content and understandings."
	case "analysis":
		instruction = "Format the response as a thoughtful analysis."
	case "quotes":
		instruction = "Format the response by extracting direct quotations from the articles provided."
	default: // highlights
		instruction = "Format the response as a highlight summary."
	}
	if !prefs.JargonAllowed {
		instruction += " Use clear, simple language and avoid complicated jargon."
	}
	return instruction
}

// joinArticles renders articles in the fixed exchange format: each title
// enclosed in triple hashtags, articles separated by blank lines.
func joinArticles(articles []dto.ArticleForSummary) string {
	var b strings.Builder
	for i, a := range articles {
		if i > 0 {
			b.WriteString("\n\n")
		}
		text := a.Content
		if text == "" {
			text = a.URL
		}
		b.WriteString(fmt.Sprintf("### %s ###\n%s", a.Title, text))
	}
	return b.String()
}

// BuildSummarizeArticlePrompt builds the single-article summarization prompt.
func BuildSummarizeArticlePrompt(article dto.ArticleForSummary, prefs dto.StylePreferences) string {
	return fmt.Sprintf(`Summarize the following article based on user preferences:
- Length: %s
- Tone: %s

%s

Please follow these instructions:
1. Generate a structured summary based on the user's selected format.
2. Classify the reading difficulty of the original article as Easy, Medium or Hard, adjusting for long sentences, advanced vocabulary and technical terms.

Your response must follow this exact structure:
**Summary**:
[Generated summary]
**Reading Difficulty**:
[Easy/Medium/Hard]

Article Content:
%s`, prefs.Length, prefs.Tone, formatInstruction(prefs), article.Content)
}

// BuildSummarizeCollectionPrompt builds the multi-article prompt. Dashboard
// mode asks for a cluster label instead of a search-result title.
func BuildSummarizeCollectionPrompt(articles []dto.ArticleForSummary, prefs dto.StylePreferences, dashboard bool) string {
	titleTask := "Generate a concise, engaging title (4-8 words) that captures the overall theme of the provided articles. The title should not be overly long or vague."
	if dashboard {
		titleTask = "Generate a short topical label (2-6 words) naming the news story these articles cover."
	}

	return fmt.Sprintf(`The provided articles are formatted as follows:

Each article begins with a title enclosed in triple hashtags (###), followed by its content. Articles are separated by two newlines.

**Task:**
1. %s
2. Summarize the main topics and themes discussed across all the articles in a cohesive and engaging manner. Start the summary by directly addressing the topic without referencing the articles themselves.
3. Ensure the summary aligns with the following user preferences:
  - **Length**: %s
  - **Tone**: %s

%s

Your response must follow this exact structure:
**Title**: [Generated Title]
**Summary**:
[Generated Summary]

%s`, titleTask, prefs.Length, prefs.Tone, formatInstruction(prefs), joinArticles(articles))
}

// BuildDailyOverviewPrompt builds the three-sentence dashboard overview
// prompt.
func BuildDailyOverviewPrompt(articles []dto.ArticleForSummary) string {
	return fmt.Sprintf(`The provided articles are formatted as follows:

Each article begins with a title enclosed in triple hashtags (###), followed by its content. Articles are separated by two newlines.

**Task:**
Generate a 3-sentence overview of the key topics and themes discussed in the provided articles. Start the summary by overviewing all covered topics in the first sentence with an opening phrase such as "Today, we will cover...". The summary should:
1. Be concise, engaging, and informative.
2. Cover diverse topics from the articles rather than focusing on a single theme.
3. Flow logically, ensuring smooth transitions between sentences.
4. Avoid referencing specific articles, titles, or sources.

%s`, joinArticles(articles))
}

// BuildRelevancePrompt builds the irrelevance-classification prompt. The
// model must answer with a bare comma-separated index list.
func BuildRelevancePrompt(titles []dto.IndexedTitle, query string) string {
	var list strings.Builder
	for _, t := range titles {
		list.WriteString(fmt.Sprintf("%d: %s\n", t.Index, t.Text))
	}

	return fmt.Sprintf(`You are an intelligent news classifier. Your task is to filter out articles that do not make sense, based on the given search query, given their title or first sentence.

Here is the search query:
"%s"

Below is a list of articles with their index and a short description:

%s
Return a comma-separated list of the indices of articles that are relevant. Order the list based on relevancy to the original search query. Do not include any text, spaces, or additional characters.`, query, list.String())
}
