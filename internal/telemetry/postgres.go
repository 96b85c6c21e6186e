package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"move-timeline/internal/db"

	"github.com/jackc/pgx/v5"
)

// PostgresSource reads an ingested mirror of the provider timeline.
type PostgresSource struct {
	db db.Querier
}

func NewPostgresSource(db db.Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) GetTimeline(ctx context.Context, userID string, from, to int64, limit int) ([]TimelineItem, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := s.db.Query(ctx, `
		SELECT user_id, start_ts, end_ts, type, features
		FROM timeline_items
		WHERE user_id=$1 AND start_ts >= $2 AND start_ts < $3
		ORDER BY start_ts DESC
		LIMIT $4
	`, userID, epoch(from), epoch(to).Add(time.Second), limitArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []TimelineItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PostgresSource) GetTimelineItem(ctx context.Context, userID string, start int64) (TimelineItem, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, start_ts, end_ts, type, features
		FROM timeline_items
		WHERE user_id=$1 AND start_ts >= $2 AND start_ts < $3
		ORDER BY start_ts
		LIMIT 1
	`, userID, epoch(start), epoch(start).Add(time.Second))

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimelineItem{}, false, nil
	}
	if err != nil {
		return TimelineItem{}, false, err
	}
	if err := item.Validate(); err != nil {
		return TimelineItem{}, false, err
	}
	return item, true, nil
}

func (s *PostgresSource) GetPoints(ctx context.Context, userID string, start int64) ([]WayPoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ts, lat, lon, info
		FROM way_points
		WHERE user_id=$1 AND trip_start_ts >= $2 AND trip_start_ts < $3
		ORDER BY ts
	`, userID, epoch(start), epoch(start).Add(time.Second))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []WayPoint{}
	for rows.Next() {
		var p WayPoint
		var info []byte
		if err := rows.Scan(&p.Timestamp, &p.Lat, &p.Lon, &info); err != nil {
			return nil, err
		}
		if len(info) > 0 {
			if err := json.Unmarshal(info, &p.Info); err != nil {
				return nil, fmt.Errorf("%w: waypoint info: %v", ErrInvalidPayload, err)
			}
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	return points, nil
}

func scanItem(row pgx.Row) (TimelineItem, error) {
	var item TimelineItem
	var features []byte
	if err := row.Scan(&item.UserID, &item.StartTs, &item.EndTs, &item.Type, &features); err != nil {
		return TimelineItem{}, err
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &item.Features); err != nil {
			return TimelineItem{}, fmt.Errorf("%w: features of %d: %v", ErrInvalidPayload, item.ID(), err)
		}
	}
	return item, nil
}

func epoch(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
