package service

import (
	"context"
	"testing"
	"time"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/internal/entity"
	"bitewise-api/pkg/logger"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

type fakeQueryRepo struct {
	records     map[string]*entity.Query
	createCalls int
	createOK    bool
	deleted     []string
	deleteRows  int64
}

func newFakeQueryRepo() *fakeQueryRepo {
	return &fakeQueryRepo{records: map[string]*entity.Query{}, createOK: true}
}

func (f *fakeQueryRepo) FindByText(_ context.Context, text string) (*entity.Query, error) {
	if q, ok := f.records[text]; ok {
		return q, nil
	}
	return nil, repository.ErrQueryNotFound
}

func (f *fakeQueryRepo) Create(_ context.Context, q *entity.Query) (bool, error) {
	f.createCalls++
	if !f.createOK {
		return false, nil
	}
	f.records[q.Query] = q
	return true, nil
}

func (f *fakeQueryRepo) DeleteByText(_ context.Context, text string) error {
	f.deleted = append(f.deleted, text)
	delete(f.records, text)
	return nil
}

func (f *fakeQueryRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for text, q := range f.records {
		if q.IssuedAt.Before(cutoff) {
			delete(f.records, text)
			removed++
		}
	}
	f.deleteRows = removed
	return removed, nil
}

type fakeArticleRepo struct {
	articles     map[string]*entity.Article
	inserted     []entity.Article
	appended     map[string][]entity.Summary
	filled       []repository.ContentPair
	appendErr    error
	fillCalls    int
	fillBatchLen []int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{
		articles: map[string]*entity.Article{},
		appended: map[string][]entity.Summary{},
	}
}

func (f *fakeArticleRepo) FindByURL(_ context.Context, url string) (*entity.Article, error) {
	if a, ok := f.articles[url]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, repository.ErrArticleNotFound
}

func (f *fakeArticleRepo) FindByURLs(_ context.Context, urls []string) ([]entity.Article, error) {
	out := make([]entity.Article, 0, len(urls))
	for _, u := range urls {
		if a, ok := f.articles[u]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeArticleRepo) InsertIgnoreConflicts(_ context.Context, articles []entity.Article) []string {
	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		a := a
		if _, exists := f.articles[a.URL]; !exists {
			f.articles[a.URL] = &a
			f.inserted = append(f.inserted, a)
		}
		urls = append(urls, a.URL)
	}
	return urls
}

func (f *fakeArticleRepo) AppendSummary(_ context.Context, url string, summary entity.Summary) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended[url] = append(f.appended[url], summary)
	if a, ok := f.articles[url]; ok {
		a.Summaries = append(a.Summaries, summary)
	}
	return nil
}

func (f *fakeArticleRepo) FillEmptyContent(_ context.Context, pairs []repository.ContentPair) error {
	f.fillCalls++
	f.fillBatchLen = append(f.fillBatchLen, len(pairs))
	f.filled = append(f.filled, pairs...)
	for _, p := range pairs {
		if a, ok := f.articles[p.URL]; ok && a.Content == "" {
			a.Content = p.Content
		}
	}
	return nil
}

type fakeCrawler struct {
	searchResp  *dto.CrawlSearchResponse
	searchErr   error
	searchCalls int
	digestResp  *dto.DigestResponse
	digestErr   error
	digestCalls int
}

func (f *fakeCrawler) Search(_ context.Context, _ *dto.CrawlSearchRequest) (*dto.CrawlSearchResponse, error) {
	f.searchCalls++
	return f.searchResp, f.searchErr
}

func (f *fakeCrawler) DailyDigest(_ context.Context, _, _ string) (*dto.DigestResponse, error) {
	f.digestCalls++
	return f.digestResp, f.digestErr
}

type fakeGeneration struct {
	oneResult      *dto.SummarizeOneResult
	oneErr         error
	manyResult     *dto.SummarizeManyResult
	manyErr        error
	manyCalls      int
	overview       string
	overviewErr    error
	overviewCalls  int
	relevant       []int
	relevanceErr   error
	relevanceCalls int
}

func (f *fakeGeneration) SummarizeOne(_ context.Context, _ dto.ArticleForSummary, _ dto.StylePreferences) (*dto.SummarizeOneResult, error) {
	return f.oneResult, f.oneErr
}

func (f *fakeGeneration) SummarizeMany(_ context.Context, _ []dto.ArticleForSummary, _ dto.StylePreferences, _ bool) (*dto.SummarizeManyResult, error) {
	f.manyCalls++
	if f.manyErr != nil {
		return nil, f.manyErr
	}
	copied := *f.manyResult
	return &copied, nil
}

func (f *fakeGeneration) DailyOverview(_ context.Context, _ []dto.ArticleForSummary) (string, error) {
	f.overviewCalls++
	return f.overview, f.overviewErr
}

func (f *fakeGeneration) ClassifyRelevance(_ context.Context, _ []dto.IndexedTitle, _ string) ([]int, error) {
	f.relevanceCalls++
	return f.relevant, f.relevanceErr
}

type fakeSummarizer struct {
	manyResult *dto.SummarizeManyResult
	manyErr    error
	manyCalls  int
	styles     []dto.StylePreferences
	// failFor makes SummarizeArticles fail only when the first article's
	// URL matches, to exercise per-cluster failure isolation.
	failFor map[string]error
}

func (f *fakeSummarizer) SummarizeArticle(_ context.Context, _ *dto.SummarizeArticleRequest) (*dto.SummarizeArticleResponse, error) {
	return nil, nil
}

func (f *fakeSummarizer) SummarizeArticles(_ context.Context, articles []dto.ArticleForSummary, prefs dto.StylePreferences, _ bool) (*dto.SummarizeManyResult, error) {
	f.manyCalls++
	f.styles = append(f.styles, prefs)
	if len(articles) > 0 && f.failFor != nil {
		if err, ok := f.failFor[articles[0].URL]; ok {
			return nil, err
		}
	}
	if f.manyErr != nil {
		return nil, f.manyErr
	}
	copied := *f.manyResult
	return &copied, nil
}

type fakeScraper struct {
	content map[string]string
	err     error
	calls   int
}

func (f *fakeScraper) FetchContent(_ context.Context, url string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content[url], nil
}

type fakeMedia struct {
	audioURL   string
	audioErr   error
	podcastURL string
	podcastErr error
	podcasted  [][]string
}

func (f *fakeMedia) SynthesizeAudio(_ context.Context, _ string) (string, error) {
	return f.audioURL, f.audioErr
}

func (f *fakeMedia) SynthesizePodcast(_ context.Context, urls []string) (string, error) {
	f.podcasted = append(f.podcasted, urls)
	return f.podcastURL, f.podcastErr
}

type fakeDashboardRepo struct {
	stored        map[string]*entity.Dashboard
	createCalls   int
	createErr     error
	attached      map[string]string
	distinctDates []time.Time
}

func newFakeDashboardRepo() *fakeDashboardRepo {
	return &fakeDashboardRepo{
		stored:   map[string]*entity.Dashboard{},
		attached: map[string]string{},
	}
}

func dashboardKey(date time.Time, location string) string {
	return date.Format("2006-01-02") + "|" + location
}

func (f *fakeDashboardRepo) put(d *entity.Dashboard) {
	f.stored[dashboardKey(d.Date, d.Location)] = d
}

func (f *fakeDashboardRepo) FindByDateLocation(_ context.Context, date time.Time, location string) (*entity.Dashboard, error) {
	if d, ok := f.stored[dashboardKey(date, location)]; ok {
		return d, nil
	}
	return nil, repository.ErrDashboardNotFound
}

func (f *fakeDashboardRepo) Create(_ context.Context, d *entity.Dashboard) (bool, error) {
	f.createCalls++
	if f.createErr != nil {
		return false, f.createErr
	}
	key := dashboardKey(d.Date, d.Location)
	if _, exists := f.stored[key]; exists {
		return false, nil
	}
	f.stored[key] = d
	return true, nil
}

func (f *fakeDashboardRepo) AttachPodcast(_ context.Context, date time.Time, location, audioURL string) error {
	key := dashboardKey(date, location)
	f.attached[key] = audioURL
	if d, ok := f.stored[key]; ok {
		d.PodcastURL = audioURL
	}
	return nil
}

func (f *fakeDashboardRepo) DistinctDates(_ context.Context, _ string) ([]time.Time, error) {
	return f.distinctDates, nil
}

type fakeTopicsRepo struct {
	stored     map[string]*entity.TopicsArticles
	inserted   []entity.TopicsArticles
	deleteRows int64
}

func newFakeTopicsRepo() *fakeTopicsRepo {
	return &fakeTopicsRepo{stored: map[string]*entity.TopicsArticles{}}
}

func topicKey(date time.Time, topic string) string {
	return date.Format("2006-01-02") + "|" + topic
}

func (f *fakeTopicsRepo) FindByDateTopic(_ context.Context, date time.Time, topic string) (*entity.TopicsArticles, error) {
	if t, ok := f.stored[topicKey(date, topic)]; ok {
		return t, nil
	}
	return nil, repository.ErrTopicsNotFound
}

func (f *fakeTopicsRepo) FindByDate(_ context.Context, date time.Time) ([]entity.TopicsArticles, error) {
	var out []entity.TopicsArticles
	for _, t := range f.stored {
		if t.Date.Equal(date) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTopicsRepo) InsertMany(_ context.Context, records []entity.TopicsArticles) error {
	for _, r := range records {
		r := r
		key := topicKey(r.Date, r.Topic)
		if _, exists := f.stored[key]; exists {
			continue
		}
		f.stored[key] = &r
		f.inserted = append(f.inserted, r)
	}
	return nil
}

func (f *fakeTopicsRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for key, t := range f.stored {
		if t.Date.Before(cutoff) {
			delete(f.stored, key)
			removed++
		}
	}
	f.deleteRows = removed
	return removed, nil
}

type fakeTopicFeed struct {
	articles map[string][]entity.TopicArticle
	err      error
}

func (f *fakeTopicFeed) FetchTopicArticles(_ context.Context, topic string, limit int) ([]entity.TopicArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.articles[topic]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.messages = append(n.messages, text)
	return nil
}
