package repository

import (
	"context"
	"errors"

	"bitewise-api/internal/entity"
	"bitewise-api/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrArticleNotFound is returned when no article exists for a URL.
var ErrArticleNotFound = errors.New("article not found")

// ArticleRepository defines the interface for interacting with stored
// articles.
type ArticleRepository interface {
	FindByURL(ctx context.Context, url string) (*entity.Article, error)
	// FindByURLs loads the articles for the given URLs, preserving the order
	// of the input slice. URLs with no stored article are skipped.
	FindByURLs(ctx context.Context, urls []string) ([]entity.Article, error)
	// InsertIgnoreConflicts saves articles best-effort: a per-row conflict
	// (duplicate URL) is logged and skipped, it never aborts the batch.
	// Returns the URLs that were attempted.
	InsertIgnoreConflicts(ctx context.Context, articles []entity.Article) []string
	// AppendSummary appends a summary record to an article. Existing records
	// are never overwritten.
	AppendSummary(ctx context.Context, url string, summary entity.Summary) error
	// FillEmptyContent applies enrichment pairs as one batched conditional
	// write: each update matches only while the stored content is still
	// empty, and no row is ever created.
	FillEmptyContent(ctx context.Context, pairs []ContentPair) error
}

// ContentPair is one enrichment result to reconcile onto a stored article.
type ContentPair struct {
	URL     string
	Content string
}

// NewArticleRepository creates a new instance of ArticleRepository.
func NewArticleRepository(db *gorm.DB, log *logger.Logger) ArticleRepository {
	return &articleRepository{db: db, logger: log}
}

type articleRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

func (r *articleRepository) FindByURL(ctx context.Context, url string) (*entity.Article, error) {
	var article entity.Article
	err := r.db.WithContext(ctx).First(&article, "url = ?", url).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindByURLs(ctx context.Context, urls []string) ([]entity.Article, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	var found []entity.Article
	if err := r.db.WithContext(ctx).Where("url IN ?", urls).Find(&found).Error; err != nil {
		return nil, err
	}

	byURL := make(map[string]entity.Article, len(found))
	for _, a := range found {
		byURL[a.URL] = a
	}

	ordered := make([]entity.Article, 0, len(found))
	for _, u := range urls {
		if a, ok := byURL[u]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

func (r *articleRepository) InsertIgnoreConflicts(ctx context.Context, articles []entity.Article) []string {
	urls := make([]string, 0, len(articles))
	for i := range articles {
		article := articles[i]
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&article).Error
		if err != nil {
			r.logger.Error("Failed to insert article",
				logger.ErrorField(err), logger.StringField("url", article.URL))
			continue
		}
		urls = append(urls, article.URL)
	}
	return urls
}

func (r *articleRepository) AppendSummary(ctx context.Context, url string, summary entity.Summary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article entity.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&article, "url = ?", url).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return err
		}
		article.Summaries = append(article.Summaries, summary)
		return tx.Model(&entity.Article{}).
			Where("url = ?", url).
			Update("summaries", article.Summaries).Error
	})
}

func (r *articleRepository) FillEmptyContent(ctx context.Context, pairs []ContentPair) error {
	if len(pairs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pair := range pairs {
			if pair.Content == "" {
				continue
			}
			res := tx.Model(&entity.Article{}).
				Where("url = ? AND (content IS NULL OR content = '')", pair.URL).
				Update("content", pair.Content)
			if res.Error != nil {
				return res.Error
			}
			// RowsAffected == 0 means the article already has content or was
			// never stored; both are intentional no-ops.
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Content reconciliation batch failed", logger.ErrorField(err))
	}
	return err
}
