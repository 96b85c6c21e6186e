package timeline

import (
	"context"
	"slices"
	"sync"
	"time"

	"move-timeline/internal/telemetry"
)

type timelineCall struct {
	from, to int64
	limit    int
}

// fakeSource serves items like the provider does: window filtered on the
// epoch-second id, newest first, optionally limited.
type fakeSource struct {
	mu sync.Mutex

	items  []telemetry.TimelineItem
	points map[int64][]telemetry.WayPoint

	timelineErr error
	itemErr     error
	pointsErr   error

	timelineCalls []timelineCall
	pointCalls    []int64
}

func (f *fakeSource) GetTimeline(_ context.Context, userID string, from, to int64, limit int) ([]telemetry.TimelineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timelineCalls = append(f.timelineCalls, timelineCall{from: from, to: to, limit: limit})
	if f.timelineErr != nil {
		return nil, f.timelineErr
	}

	out := []telemetry.TimelineItem{}
	for _, item := range f.items {
		if item.UserID == userID && item.ID() >= from && item.ID() <= to {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b telemetry.TimelineItem) int {
		return b.StartTs.Compare(a.StartTs)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSource) GetTimelineItem(_ context.Context, userID string, start int64) (telemetry.TimelineItem, bool, error) {
	if f.itemErr != nil {
		return telemetry.TimelineItem{}, false, f.itemErr
	}
	for _, item := range f.items {
		if item.UserID == userID && item.ID() == start {
			return item, true, nil
		}
	}
	return telemetry.TimelineItem{}, false, nil
}

func (f *fakeSource) GetPoints(_ context.Context, _ string, start int64) ([]telemetry.WayPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointCalls = append(f.pointCalls, start)
	if f.pointsErr != nil {
		return nil, f.pointsErr
	}
	points := f.points[start]
	if points == nil {
		points = []telemetry.WayPoint{}
	}
	return points, nil
}

const testUser = "driver@example.com"

var baseTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func tripAt(start time.Time, d time.Duration, kind string) telemetry.TimelineItem {
	return telemetry.TimelineItem{
		UserID:  testUser,
		StartTs: start,
		EndTs:   start.Add(d),
		Type:    kind,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func wayPoint(ts time.Time, lat, lon float64, speed, limit *float64) telemetry.WayPoint {
	p := telemetry.WayPoint{Timestamp: ts, Lat: lat, Lon: lon}
	if speed != nil || limit != nil {
		p.Info = &telemetry.WayPointInfo{Speed: speed, SpeedLimit: limit}
	}
	return p
}
