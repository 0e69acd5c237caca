package services

import (
	"context"
	"time"

	"github.com/sponsorlink/backend/internal/reach"
	"go.uber.org/zap"
)

type ChannelFetcher interface {
	FetchChannel(ctx context.Context, handle string) (*reach.ChannelStats, error)
}

type FetchThrottle interface {
	Allow(ctx context.Context, handle string) (bool, error)
}

// ReachService refreshes influencer reach figures from their public channel pages.
type ReachService struct {
	influencers InfluencerStore
	fetcher     ChannelFetcher
	throttle    FetchThrottle
	// pause between two fetches of one run
	pause time.Duration
	log   *zap.Logger
}

func NewReachService(influencers InfluencerStore, fetcher ChannelFetcher, throttle FetchThrottle, pause time.Duration, log *zap.Logger) *ReachService {
	return &ReachService{
		influencers: influencers,
		fetcher:     fetcher,
		throttle:    throttle,
		pause:       pause,
		log:         log,
	}
}

type RefreshReport struct {
	Checked int
	Updated int
	Skipped int
	Failed  int
}

// Refresh fetches every influencer with a channel handle once. Individual failures
// are logged and counted; only listing errors abort the run.
func (s *ReachService) Refresh(ctx context.Context) (RefreshReport, error) {
	var report RefreshReport

	list, err := s.influencers.ListWithChannel(ctx)
	if err != nil {
		return report, err
	}
	s.log.Info("refreshing influencer reach", zap.Int("influencers", len(list)))

	for i, inf := range list {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if inf.ChannelHandle == nil || *inf.ChannelHandle == "" {
			continue
		}
		handle := *inf.ChannelHandle
		report.Checked++

		if s.throttle != nil {
			ok, err := s.throttle.Allow(ctx, handle)
			if err != nil {
				s.log.Warn("reach throttle check failed", zap.String("handle", handle), zap.Error(err))
			} else if !ok {
				report.Skipped++
				continue
			}
		}

		stats, err := s.fetcher.FetchChannel(ctx, handle)
		if err != nil {
			report.Failed++
			s.log.Warn("reach fetch failed", zap.String("handle", handle), zap.Error(err))
			continue
		}
		if err := s.influencers.UpdateReach(ctx, inf.ID, stats.Subscribers, stats.AvgViews); err != nil {
			report.Failed++
			s.log.Error("failed to store reach", zap.Int64("influencer_id", inf.ID), zap.Error(err))
			continue
		}
		report.Updated++
		s.log.Info("reach updated",
			zap.Int64("influencer_id", inf.ID),
			zap.String("handle", handle),
			zap.Intp("subscribers", stats.Subscribers),
			zap.Intp("avg_views", stats.AvgViews),
		)

		if s.pause > 0 && i < len(list)-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.pause):
			}
		}
	}
	return report, nil
}
