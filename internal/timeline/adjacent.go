package timeline

import (
	"context"
	"fmt"
	"time"

	"move-timeline/internal/telemetry"
)

const (
	defaultPreviousLimit = 50
	defaultNextWindow    = 24 * time.Hour
)

type ResolverConfig struct {
	// EpochFloor is the earliest epoch second the provider holds data for.
	EpochFloor int64
	// PreviousLimit caps the look-back query. Defaults to 50.
	PreviousLimit int
	// NextWindow bounds the look-ahead after a trip ends. Defaults to 24h.
	NextWindow time.Duration
}

// Resolver finds the trips around a reference trip with windowed timeline
// queries. Every call queries the source afresh.
type Resolver struct {
	source telemetry.Source
	cfg    ResolverConfig
}

func NewResolver(source telemetry.Source, cfg ResolverConfig) *Resolver {
	if cfg.PreviousLimit <= 0 {
		cfg.PreviousLimit = defaultPreviousLimit
	}
	if cfg.NextWindow <= 0 {
		cfg.NextWindow = defaultNextWindow
	}
	return &Resolver{source: source, cfg: cfg}
}

// PreviousID returns the id of the closest CAR trip that started before item.
func (r *Resolver) PreviousID(ctx context.Context, item telemetry.TimelineItem) (int64, bool, error) {
	to := item.ID() - 1
	if to < r.cfg.EpochFloor {
		return 0, false, nil
	}

	items, err := r.source.GetTimeline(ctx, item.UserID, r.cfg.EpochFloor, to, r.cfg.PreviousLimit)
	if err != nil {
		return 0, false, fmt.Errorf("previous trip lookup: %w", err)
	}
	// items are newest first, so the first CAR is the closest one
	for _, candidate := range items {
		if candidate.IsCar() {
			return candidate.ID(), true, nil
		}
	}
	return 0, false, nil
}

// NextID returns the id of the first item starting within NextWindow after
// item ends. Nothing later than that is considered.
func (r *Resolver) NextID(ctx context.Context, item telemetry.TimelineItem) (int64, bool, error) {
	end := item.EndTs.Unix()
	from := end + 1
	to := end + int64(r.cfg.NextWindow/time.Second)

	items, err := r.source.GetTimeline(ctx, item.UserID, from, to, 0)
	if err != nil {
		return 0, false, fmt.Errorf("next trip lookup: %w", err)
	}
	if len(items) == 0 {
		return 0, false, nil
	}
	// newest first, so the chronologically first item is the last one
	return items[len(items)-1].ID(), true, nil
}
