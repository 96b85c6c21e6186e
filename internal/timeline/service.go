package timeline

import (
	"context"
	"errors"
	"fmt"

	"move-timeline/internal/logger"
	"move-timeline/internal/telemetry"

	"golang.org/x/sync/errgroup"
)

var ErrNotFound = errors.New("timeline item not found")

type Service struct {
	source   telemetry.Source
	resolver *Resolver
}

func NewService(source telemetry.Source, cfg ResolverConfig) *Service {
	return &Service{
		source:   source,
		resolver: NewResolver(source, cfg),
	}
}

// Summaries lists all items of a user whose id falls into [from, to].
func (s *Service) Summaries(ctx context.Context, userID string, from, to int64) ([]TripSummary, error) {
	items, err := s.source.GetTimeline(ctx, userID, from, to, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}

	summaries := make([]TripSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, FormatSummary(item))
	}
	return summaries, nil
}

// Details builds the full report for the trip with the given id. Adjacent
// trip lookups never fail the request; any other upstream error does.
func (s *Service) Details(ctx context.Context, userID string, id int64) (TripDetail, error) {
	item, ok, err := s.source.GetTimelineItem(ctx, userID, id)
	if err != nil {
		return TripDetail{}, fmt.Errorf("fetch timeline item %d: %w", id, err)
	}
	if !ok {
		return TripDetail{}, ErrNotFound
	}

	detail := TripDetail{TripSummary: FormatSummary(item)}

	var points []telemetry.WayPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prev, found, err := s.resolver.PreviousID(gctx, item)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("trip_id", item.ID()).Msg("previous trip unresolved")
			return nil
		}
		if found {
			detail.PreviousTripID = &prev
		}
		return nil
	})
	g.Go(func() error {
		next, found, err := s.resolver.NextID(gctx, item)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("trip_id", item.ID()).Msg("next trip unresolved")
			return nil
		}
		if found {
			detail.NextTripID = &next
		}
		return nil
	})
	if item.IsCar() {
		g.Go(func() error {
			p, err := s.source.GetPoints(gctx, userID, item.ID())
			if err != nil {
				return fmt.Errorf("fetch points of %d: %w", item.ID(), err)
			}
			points = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TripDetail{}, err
	}

	if item.IsCar() {
		detail.CarDetail = carDetail(item, points)
	}
	return detail, nil
}

func carDetail(item telemetry.TimelineItem, points []telemetry.WayPoint) *CarDetail {
	durationMinutes := item.EndTs.Sub(item.StartTs).Minutes()
	return &CarDetail{
		TripPoints:         TripPoints(points),
		SectionDistance:    SectionDistances(points),
		DistractionDetails: AnalyzeDistraction(item.Features.PhoneDistractions.SecondsPerType, durationMinutes),
		DistractionEvents:  DistractionEvents(item.Features.PhoneDistractions.Distractions),
		DrivingEvents:      DrivingEvents(item.Features.DrivingBehaviorEvents.Events),
	}
}
