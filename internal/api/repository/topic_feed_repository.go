package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"bitewise-api/internal/entity"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/preference"

	"github.com/mmcdole/gofeed"
)

const googleNewsRSSBase = "https://news.google.com/rss"

// TopicFeedRepository discovers lightweight article descriptors for a topic
// via the Google News RSS feed.
type TopicFeedRepository interface {
	FetchTopicArticles(ctx context.Context, topic string, limit int) ([]entity.TopicArticle, error)
}

type topicFeedRepository struct {
	parser *gofeed.Parser
	logger *logger.Logger
}

// NewTopicFeedRepository creates a new instance of TopicFeedRepository.
func NewTopicFeedRepository(log *logger.Logger) TopicFeedRepository {
	return &topicFeedRepository{
		parser: gofeed.NewParser(),
		logger: log,
	}
}

func (r *topicFeedRepository) FetchTopicArticles(ctx context.Context, topic string, limit int) ([]entity.TopicArticle, error) {
	feedURL := fmt.Sprintf("%s/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		googleNewsRSSBase, url.QueryEscape(topic))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch topic feed for %q: %w", topic, err)
	}

	articles := make([]entity.TopicArticle, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		if item.Link == "" || item.Title == "" {
			continue
		}

		source := feedItemSource(item)
		description := strings.TrimSpace(item.Description)
		articles = append(articles, entity.TopicArticle{
			URL:           item.Link,
			Title:         item.Title,
			Description:   description,
			Source:        source,
			DatePublished: item.PublishedParsed,
			ReadTime:      preference.ReadTimeBucket(len(description)),
			BiasRating:    preference.BiasForSource(source),
		})
	}
	return articles, nil
}

// feedItemSource pulls the publisher out of a Google News item, which embeds
// it either as a custom source element or as a " - Publisher" title suffix.
func feedItemSource(item *gofeed.Item) string {
	if src, ok := item.Custom["source"]; ok && src != "" {
		return src
	}
	if i := strings.LastIndex(item.Title, " - "); i > 0 {
		return strings.TrimSpace(item.Title[i+3:])
	}
	return ""
}
