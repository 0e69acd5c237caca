package reach

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// avgWindow is the number of most recent posts averaged into AvgViews.
const avgWindow = 20

type ChannelStats struct {
	Handle      string    `json:"handle"`
	Subscribers *int      `json:"subscribers,omitempty"`
	AvgViews    *int      `json:"avg_views,omitempty"`
	Posts       int       `json:"posts"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Parser scrapes the public preview page of an influencer channel.
type Parser struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	log        *zap.Logger
}

func NewParser(timeoutMS, maxRetries int, log *zap.Logger) *Parser {
	return &Parser{
		httpClient: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
		baseURL:    "https://t.me/s/",
		maxRetries: maxRetries,
		log:        log,
	}
}

// WithBaseURL points the parser at another preview host.
func (p *Parser) WithBaseURL(u string) *Parser {
	p.baseURL = u
	return p
}

func (p *Parser) FetchChannel(ctx context.Context, handle string) (*ChannelStats, error) {
	url := p.baseURL + handle

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		stats, err := p.fetchOnce(ctx, url, handle)
		if err == nil {
			return stats, nil
		}
		lastErr = err
		p.log.Debug("channel fetch failed", zap.String("handle", handle), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (p *Parser) fetchOnce(ctx context.Context, url, handle string) (*ChannelStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; sponsorlink-reach/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return Parse(resp.Body, handle)
}

// Parse reads subscriber count and recent post views from a channel preview page.
func Parse(r io.Reader, handle string) (*ChannelStats, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	stats := &ChannelStats{Handle: handle, FetchedAt: time.Now()}

	doc.Find(".tgme_channel_info_counter").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(s.Find(".counter_type").Text())
		if !strings.Contains(label, "subscriber") && !strings.Contains(label, "member") {
			return
		}
		if n := parseCount(s.Find(".counter_value").Text()); n > 0 {
			stats.Subscribers = &n
		}
	})
	if stats.Subscribers == nil {
		doc.Find(".tgme_page_extra").Each(func(_ int, s *goquery.Selection) {
			text := strings.ToLower(s.Text())
			if strings.Contains(text, "subscriber") || strings.Contains(text, "member") {
				if n := parseCount(text); n > 0 {
					stats.Subscribers = &n
				}
			}
		})
	}

	var views []int
	doc.Find(".tgme_widget_message_wrap").Each(func(_ int, s *goquery.Selection) {
		stats.Posts++
		if n := parseCount(s.Find(".tgme_widget_message_views").Text()); n > 0 {
			views = append(views, n)
		}
	})

	// Posts are listed oldest first.
	if len(views) > avgWindow {
		views = views[len(views)-avgWindow:]
	}
	if len(views) > 0 {
		total := 0
		for _, v := range views {
			total += v
		}
		avg := total / len(views)
		stats.AvgViews = &avg
	}

	return stats, nil
}

var countRE = regexp.MustCompile(`(\d[\d,. ]*)([KkMm])?\b`)

// parseCount turns "1.2K", "12,345" or "1 234 subscribers" into an integer.
func parseCount(text string) int {
	m := countRE.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}

	number := strings.NewReplacer(" ", "", ",", "").Replace(m[1])
	multiplier := 1.0
	switch m[2] {
	case "K", "k":
		multiplier = 1e3
	case "M", "m":
		multiplier = 1e6
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(number, "."), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f * multiplier))
}
