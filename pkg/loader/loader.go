// Package loader fetches the recent-decisions page and pulls out the hidden
// grid payload and the summary counters.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wavewatch/wavewatch/pkg/whttp"
)

const (
	GridSelector    = "#decisions-grid-grid-data"
	SummarySelector = "#recent-updates-component span"

	DefaultNavigationTimeout = 30 * time.Second
	DefaultHydrationTimeout  = 20 * time.Second
	DefaultPollInterval      = 2 * time.Second
)

// ErrPageLoad is returned when the page itself could not be fetched.
var ErrPageLoad = errors.New("page load failed")

// summaryLabels maps the labels shown on the page to summary keys.
var summaryLabels = []string{"Accepted", "Rejected", "Waitlisted", "Withdrawn"}

// Page is what one load of the recent-decisions page yields.
type Page struct {
	RawGrid string
	Summary map[string]int
}

// Loader loads the recent-decisions page.
type Loader interface {
	Load(ctx context.Context, url string) (*Page, error)
}

// HTTPLoader fetches the page over HTTP. While the grid is still empty it
// refetches until HydrationTimeout, then returns whatever it saw.
type HTTPLoader struct {
	Client            *http.Client
	NavigationTimeout time.Duration
	HydrationTimeout  time.Duration
	PollInterval      time.Duration
}

func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{
		Client:            &http.Client{},
		NavigationTimeout: DefaultNavigationTimeout,
		HydrationTimeout:  DefaultHydrationTimeout,
		PollInterval:      DefaultPollInterval,
	}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) (*Page, error) {
	deadline := time.Now().Add(l.HydrationTimeout)
	for {
		page, err := l.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if hydrated(page.RawGrid) || !time.Now().Add(l.PollInterval).Before(deadline) {
			return page, nil
		}

		select {
		case <-ctx.Done():
			// Cancellation is not an empty grid; the caller must not act on this page.
			return nil, fmt.Errorf("%w: %v", ErrPageLoad, ctx.Err())
		case <-time.After(l.PollInterval):
		}
	}
}

func (l *HTTPLoader) fetch(ctx context.Context, url string) (*Page, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method:  http.MethodGet,
		URL:     url,
		Timeout: l.NavigationTimeout,
		Headers: []whttp.WHTTPHeader{{Name: "Accept", Value: "text/html"}},
	}, l.Client)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, url, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s: got status code %d", ErrPageLoad, url, res.StatusCode)
	}
	return Parse(res.BodyString)
}

// FileLoader reads a saved copy of the page from disk. The url argument is ignored.
type FileLoader struct {
	Path string
}

func (l *FileLoader) Load(_ context.Context, _ string) (*Page, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return Parse(string(data))
}

// Parse extracts the grid payload and the summary counters from a page.
// A page without the grid yields "[]".
func Parse(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrPageLoad, err)
	}

	page := &Page{RawGrid: "[]", Summary: make(map[string]int, len(summaryLabels))}
	if v, ok := doc.Find(GridSelector).First().Attr("value"); ok && v != "" {
		page.RawGrid = v
	}

	for _, label := range summaryLabels {
		page.Summary[strings.ToLower(label)] = 0
	}
	spans := doc.Find(SummarySelector)
	for _, label := range summaryLabels {
		spans.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if !strings.HasSuffix(text, label) {
				return true
			}
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(text, label)))
			if err == nil {
				page.Summary[strings.ToLower(label)] = n
			}
			return false
		})
	}
	return page, nil
}

func hydrated(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw != "" && raw != "[]"
}
