package reach

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"1 234", 1234},
		{"5.6K views", 5600},
		{"1 234 members", 1234},
		{"12 subscribers", 12},
		{"100K", 100000},
		{"0", 0},
		{"", 0},
		{"no number", 0},
		{"42k", 42000},
		{"3.14k", 3140},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseCount(tt.input); got != tt.expected {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

const previewPage = `<html><body>
<div class="tgme_channel_info_counters">
  <div class="tgme_channel_info_counter"><span class="counter_value">12.5K</span> <span class="counter_type">subscribers</span></div>
  <div class="tgme_channel_info_counter"><span class="counter_value">340</span> <span class="counter_type">photos</span></div>
</div>
<div class="tgme_widget_message_wrap"><div class="tgme_widget_message"><span class="tgme_widget_message_views">1.0K</span></div></div>
<div class="tgme_widget_message_wrap"><div class="tgme_widget_message"><span class="tgme_widget_message_views">3.0K</span></div></div>
<div class="tgme_widget_message_wrap"><div class="tgme_widget_message"></div></div>
</body></html>`

func TestParse(t *testing.T) {
	stats, err := Parse(strings.NewReader(previewPage), "fashionista")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stats.Handle != "fashionista" {
		t.Errorf("handle = %q", stats.Handle)
	}
	if stats.Subscribers == nil || *stats.Subscribers != 12500 {
		t.Errorf("subscribers = %v, want 12500", stats.Subscribers)
	}
	if stats.Posts != 3 {
		t.Errorf("posts = %d, want 3", stats.Posts)
	}
	if stats.AvgViews == nil || *stats.AvgViews != 2000 {
		t.Errorf("avg views = %v, want 2000", stats.AvgViews)
	}
}

func TestParseExtraFallback(t *testing.T) {
	page := `<div class="tgme_page_extra">1 234 members</div>`
	stats, err := Parse(strings.NewReader(page), "club")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stats.Subscribers == nil || *stats.Subscribers != 1234 {
		t.Errorf("subscribers = %v, want 1234", stats.Subscribers)
	}
	if stats.AvgViews != nil {
		t.Errorf("avg views = %d, want nil", *stats.AvgViews)
	}
}

func TestFetchChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fashionista" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(previewPage))
	}))
	defer srv.Close()

	p := NewParser(2000, 0, zap.NewNop()).WithBaseURL(srv.URL + "/")

	stats, err := p.FetchChannel(context.Background(), "fashionista")
	if err != nil {
		t.Fatalf("FetchChannel: %v", err)
	}
	if stats.Subscribers == nil || *stats.Subscribers != 12500 {
		t.Errorf("subscribers = %v, want 12500", stats.Subscribers)
	}

	if _, err := p.FetchChannel(context.Background(), "missing"); err == nil {
		t.Error("expected error for 404 page")
	}
}
