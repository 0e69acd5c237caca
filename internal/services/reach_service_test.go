package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sponsorlink/backend/internal/reach"
	"github.com/sponsorlink/backend/internal/services/servicetest"
	"go.uber.org/zap"
)

type stubFetcher struct {
	stats map[string]*reach.ChannelStats
}

func (f *stubFetcher) FetchChannel(_ context.Context, handle string) (*reach.ChannelStats, error) {
	s, ok := f.stats[handle]
	if !ok {
		return nil, errors.New("HTTP 404")
	}
	return s, nil
}

type stubThrottle struct {
	blocked map[string]bool
}

func (t *stubThrottle) Allow(_ context.Context, handle string) (bool, error) {
	return !t.blocked[handle], nil
}

func intp(v int) *int { return &v }

func strp(s string) *string { return &s }

func TestReachService_Refresh(t *testing.T) {
	db := servicetest.NewDB()
	ctx := context.Background()

	u1 := db.AddUser("lena", "l@x.com", "")
	lena := db.AddInfluencer(u1.ID, "Lena", "fashion", strp("lenastyle"))
	u2 := db.AddUser("max", "m@x.com", "")
	db.AddInfluencer(u2.ID, "Max", "tech", strp("maxtech"))
	u3 := db.AddUser("kim", "k@x.com", "")
	db.AddInfluencer(u3.ID, "Kim", "food", strp("gone"))
	u4 := db.AddUser("nohandle", "n@x.com", "")
	db.AddInfluencer(u4.ID, "No", "food", nil)

	fetcher := &stubFetcher{stats: map[string]*reach.ChannelStats{
		"lenastyle": {Handle: "lenastyle", Subscribers: intp(12500), AvgViews: intp(2000)},
		"maxtech":   {Handle: "maxtech", Subscribers: intp(900)},
	}}
	throttle := &stubThrottle{blocked: map[string]bool{"maxtech": true}}

	svc := NewReachService(db.Influencers(), fetcher, throttle, 0, zap.NewNop())
	report, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	want := RefreshReport{Checked: 3, Updated: 1, Skipped: 1, Failed: 1}
	if report != want {
		t.Fatalf("report = %+v, want %+v", report, want)
	}

	got, _ := db.Influencer(lena.ID)
	if got.Reach == nil || *got.Reach != 12500 || got.AvgViews == nil || *got.AvgViews != 2000 {
		t.Fatalf("reach not stored: %+v", got)
	}
	if got.ReachUpdatedAt == nil {
		t.Fatal("reach_updated_at not set")
	}
}
