package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/cache"
	"github.com/jonathan/resume-matcher/internal/logging"
)

// MaxJobTextRunes caps the job description handed to prompts.
const MaxJobTextRunes = 20000

// JobPage is a job posting reduced to text.
type JobPage struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Platform  Platform  `json:"platform"`
	Text      string    `json:"text"`
	Rendered  bool      `json:"rendered"`
	FetchedAt time.Time `json:"fetched_at"`
}

// JobFetcher retrieves job postings, caching the extracted text.
type JobFetcher struct {
	opts     *Options
	cache    *cache.Cache
	cacheTTL time.Duration
	// render is nil when browser rendering is disabled
	render RenderFunc
	now    func() time.Time
}

// JobFetcherOption configures a JobFetcher
type JobFetcherOption func(*JobFetcher)

// WithOptions sets the HTTP options
func WithOptions(opts *Options) JobFetcherOption {
	return func(f *JobFetcher) { f.opts = opts }
}

// WithCache stores extracted postings in c for ttl
func WithCache(c *cache.Cache, ttl time.Duration) JobFetcherOption {
	return func(f *JobFetcher) { f.cache, f.cacheTTL = c, ttl }
}

// WithRenderer enables the browser fallback for short or client-rendered pages
func WithRenderer(render RenderFunc) JobFetcherOption {
	return func(f *JobFetcher) { f.render = render }
}

// WithBrowser enables the headless Chrome fallback
func WithBrowser(timeout time.Duration) JobFetcherOption {
	return WithRenderer(func(ctx context.Context, url string) (string, error) {
		return Render(ctx, url, timeout)
	})
}

// NewJobFetcher creates a fetcher. Without options it fetches over plain HTTP and caches nothing.
func NewJobFetcher(options ...JobFetcherOption) *JobFetcher {
	f := &JobFetcher{
		opts:     DefaultOptions(),
		cache:    cache.Disabled(),
		cacheTTL: 6 * time.Hour,
		now:      time.Now,
	}
	for _, o := range options {
		o(f)
	}
	if f.cache == nil {
		f.cache = cache.Disabled()
	}
	if f.opts == nil {
		f.opts = DefaultOptions()
	}
	return f
}

// JobDescription fetches url and returns the posting text.
func (f *JobFetcher) JobDescription(ctx context.Context, url string) (*JobPage, error) {
	url = strings.TrimSpace(url)
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	log := logging.Ctx(ctx).With().Str("component", "fetch").Str("url", url).Logger()
	// covers the browser too, which dials on its own
	if !f.opts.AllowPrivateNetworks {
		if err := CheckHost(ctx, url); err != nil {
			log.Warn().Err(err).Msg("job page host rejected")
			return nil, err
		}
	}

	key := f.cache.Key("jobpage", url)
	var cached JobPage
	if ok, err := f.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		log.Debug().Msg("job page cache hit")
		return &cached, nil
	}

	platform := DetectPlatform(url)
	page := &JobPage{URL: url, Platform: platform}

	html := ""
	result, fetchErr := URL(ctx, url, f.opts)
	if fetchErr == nil {
		html = result.HTML
		page.Text, fetchErr = extractJobText(html, platform)
	}

	if IsBlocked(fetchErr) {
		return nil, fetchErr
	}

	needsBrowser := fetchErr != nil || ShouldUseBrowser(page.Text) || RendersClientSide(platform)
	if needsBrowser && f.render != nil {
		log.Debug().Err(fetchErr).Int("chars", len(page.Text)).Msg("falling back to browser rendering")
		rendered, err := f.render(ctx, url)
		if err != nil {
			if fetchErr == nil && page.Text != "" {
				log.Warn().Err(err).Msg("browser rendering failed, using plain fetch")
			} else {
				return nil, err
			}
		} else if text, err := extractJobText(rendered, platform); err == nil && len(text) > len(page.Text) {
			html, page.Text, page.Rendered = rendered, text, true
			fetchErr = nil
		}
	}

	if fetchErr != nil {
		return nil, fetchErr
	}
	if strings.TrimSpace(page.Text) == "" {
		return nil, &Error{URL: url, Message: "no job description text found on page"}
	}

	page.Text = truncateRunes(page.Text, MaxJobTextRunes)
	page.Title = PageTitle(html)
	page.FetchedAt = f.now().UTC()

	if err := f.cache.SetJSON(ctx, key, page, f.cacheTTL); err != nil {
		log.Debug().Err(err).Msg("failed to cache job page")
	}
	log.Info().Str("platform", string(platform)).Bool("rendered", page.Rendered).Int("chars", len(page.Text)).Msg("fetched job posting")
	return page, nil
}

func extractJobText(html string, platform Platform) (string, error) {
	return ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
