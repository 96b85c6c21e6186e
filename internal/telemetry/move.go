package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"move-timeline/internal/logger"
)

var (
	ErrTimeout     = errors.New("telemetry provider timeout")
	ErrUnavailable = errors.New("telemetry provider unavailable")
)

// StatusError is returned when the provider answers with an unexpected
// HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("telemetry provider returned %d: %s", e.StatusCode, e.Body)
}

type MoveConfig struct {
	BaseURL   string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

// MoveClient reads timelines from the MOVE SDK backend.
type MoveClient struct {
	cfg  MoveConfig
	http *http.Client
}

func NewMoveClient(cfg MoveConfig, httpClient *http.Client) *MoveClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MoveClient{cfg: cfg, http: httpClient}
}

func (c *MoveClient) GetTimeline(ctx context.Context, userID string, from, to int64, limit int) ([]TimelineItem, error) {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var items []TimelineItem
	if _, err := c.get(ctx, "/v20/timeline", q, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []TimelineItem{}
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	sortItemsDesc(items)
	return items, nil
}

func (c *MoveClient) GetTimelineItem(ctx context.Context, userID string, start int64) (TimelineItem, bool, error) {
	q := url.Values{}
	q.Set("userId", userID)

	var item TimelineItem
	found, err := c.get(ctx, "/v20/timeline/"+strconv.FormatInt(start, 10), q, &item)
	if err != nil || !found {
		return TimelineItem{}, false, err
	}
	if err := item.Validate(); err != nil {
		return TimelineItem{}, false, err
	}
	return item, true, nil
}

func (c *MoveClient) GetPoints(ctx context.Context, userID string, start int64) ([]WayPoint, error) {
	q := url.Values{}
	q.Set("userId", userID)

	var points []WayPoint
	found, err := c.get(ctx, "/v20/timeline/"+strconv.FormatInt(start, 10)+"/points", q, &points)
	if err != nil {
		return nil, err
	}
	if !found || points == nil {
		return []WayPoint{}, nil
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	sortPointsAsc(points)
	return points, nil
}

// get decodes a JSON response into out. It reports false without error
// when the provider answers 404.
func (c *MoveClient) get(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.SetBasicAuth(c.cfg.ProjectID, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	log := logger.Ctx(ctx).With().Str("method", req.Method).Str("path", path).Logger()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("telemetry_request_failed")
		return false, mapTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("telemetry_request_completed")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrInvalidPayload, path, err)
	}
	return true, nil
}

// mapTransportError keeps caller aborts distinguishable from provider
// timeouts: a canceled request still matches context.Canceled.
func mapTransportError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("telemetry request aborted: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
