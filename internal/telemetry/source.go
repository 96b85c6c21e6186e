package telemetry

import (
	"cmp"
	"context"
	"slices"
)

// Source supplies raw timeline data for a user. Window bounds are inclusive
// epoch seconds matched against an item's epoch-second id.
type Source interface {
	// GetTimeline returns items descending by start time, never nil.
	// A limit <= 0 means unlimited.
	GetTimeline(ctx context.Context, userID string, from, to int64, limit int) ([]TimelineItem, error)
	// GetTimelineItem reports false when no item starts at start.
	GetTimelineItem(ctx context.Context, userID string, start int64) (TimelineItem, bool, error)
	// GetPoints returns the waypoints of a CAR trip ascending by timestamp.
	GetPoints(ctx context.Context, userID string, start int64) ([]WayPoint, error)
}

func sortItemsDesc(items []TimelineItem) {
	slices.SortStableFunc(items, func(a, b TimelineItem) int {
		return b.StartTs.Compare(a.StartTs)
	})
}

func sortPointsAsc(points []WayPoint) {
	slices.SortStableFunc(points, func(a, b WayPoint) int {
		return cmp.Compare(a.Timestamp.UnixNano(), b.Timestamp.UnixNano())
	})
}

var (
	_ Source = (*MoveClient)(nil)
	_ Source = (*PostgresSource)(nil)
)
