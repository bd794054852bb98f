package service

import (
	"context"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/pkg/logger"
)

// RelevanceFilter reorders search candidates by classifier relevance. It
// never drops a candidate and it fails open: if the classifier errors or
// answers garbage, the input order is returned untouched. Search must not
// come back empty just because the classifier is down.
type RelevanceFilter struct {
	generation repository.GenerationRepository
	logger     *logger.Logger
}

// NewRelevanceFilter creates a new RelevanceFilter.
func NewRelevanceFilter(generation repository.GenerationRepository, log *logger.Logger) *RelevanceFilter {
	return &RelevanceFilter{generation: generation, logger: log}
}

// Reorder returns a permutation of articles: the indices the classifier
// marked relevant first, in their original relative order, followed by the
// rest in their original relative order.
func (f *RelevanceFilter) Reorder(ctx context.Context, articles []dto.CrawlArticle, query string) []dto.CrawlArticle {
	if len(articles) < 2 {
		return articles
	}

	titles := make([]dto.IndexedTitle, len(articles))
	for i, a := range articles {
		text := a.Title
		if text == "" {
			text = a.Description
		}
		titles[i] = dto.IndexedTitle{Index: i, Text: text}
	}

	relevant, err := f.generation.ClassifyRelevance(ctx, titles, query)
	if err != nil {
		f.logger.Warn("Relevance classification failed, keeping original order",
			logger.ErrorField(err), logger.StringField("query", query))
		return articles
	}

	marked := make(map[int]bool, len(relevant))
	for _, idx := range relevant {
		if idx < 0 || idx >= len(articles) {
			// An out-of-range index means the classifier is hallucinating;
			// trust nothing it said.
			f.logger.Warn("Relevance classifier returned out-of-range index, keeping original order",
				logger.IntField("index", idx), logger.StringField("query", query))
			return articles
		}
		marked[idx] = true
	}

	ordered := make([]dto.CrawlArticle, 0, len(articles))
	for i, a := range articles {
		if marked[i] {
			ordered = append(ordered, a)
		}
	}
	for i, a := range articles {
		if !marked[i] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}
