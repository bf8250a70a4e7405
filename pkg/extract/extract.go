package extract

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/yukifw/ragbot/internal/models"
	"github.com/yukifw/ragbot/internal/textutil"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// An extraction rule picks the readable content for hosts it recognizes.
// Rules are evaluated in order; the generic paragraph fallback runs last.
type rule struct {
	match   func(host string) bool
	extract func(doc *goquery.Document) string
}

func hostContains(fragment string) func(string) bool {
	return func(host string) bool {
		return strings.Contains(host, fragment)
	}
}

func selectorText(selector string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		return doc.Find(selector).Text()
	}
}

var siteRules = []rule{
	{hostContains("nhk.or.jp"), selectorText("div.content--detail-body")},
	{hostContains("wikipedia.org"), selectorText("div.mw-parser-output p")},
	{hostContains("github.com"), selectorText("article")},
}

// genericParagraphs concatenates every paragraph-level text block.
func genericParagraphs(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString(" ")
	})
	return sb.String()
}

type ExtractorConfig struct {
	Timeout   time.Duration
	MaxChars  int
	RateLimit float64 // outbound fetches per second
}

type Extractor struct {
	config  ExtractorConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ExtractorConfig) *Extractor {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.MaxChars == 0 {
		config.MaxChars = 3000
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}

	return &Extractor{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// Extract fetches one URL and pulls a bounded plain-text excerpt from it.
// Failures are reported through the page status, never as an error, so a
// bad URL cannot take down the batch it belongs to.
func (e *Extractor) Extract(ctx context.Context, pageURL string) models.ExtractedPage {
	page := models.ExtractedPage{SourceURL: pageURL}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		page.Status = models.PageFetchError
		return page
	}

	if err := e.limiter.Wait(ctx); err != nil {
		page.Status = models.PageTimeout
		return page
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		page.Status = models.PageFetchError
		return page
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		page.Status = classifyFetchError(err)
		return page
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		page.Status = models.PageFetchError
		return page
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		page.Status = models.PageFetchError
		return page
	}

	text := e.extractContent(parsed.Host, doc)
	if text == "" {
		page.Status = models.PageEmpty
		return page
	}

	page.Text = textutil.TruncateRunes(text, e.config.MaxChars)
	page.Status = models.PageOK
	return page
}

func (e *Extractor) extractContent(host string, doc *goquery.Document) string {
	for _, r := range siteRules {
		if r.match(host) {
			if text := textutil.CollapseWhitespace(r.extract(doc)); text != "" {
				return text
			}
			break
		}
	}
	return textutil.CollapseWhitespace(genericParagraphs(doc))
}

func classifyFetchError(err error) models.PageStatus {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.PageTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.PageTimeout
	}
	return models.PageFetchError
}
