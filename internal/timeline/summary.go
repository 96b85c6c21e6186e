package timeline

import (
	"math"

	"move-timeline/internal/telemetry"
)

const defaultScore = 100.0

// FormatSummary converts a raw timeline item into its summary.
func FormatSummary(item telemetry.TimelineItem) TripSummary {
	summary := TripSummary{
		ID:           item.ID(),
		Type:         item.Type,
		StartTs:      item.StartTs,
		EndTs:        item.EndTs,
		StartAddress: item.Features.StartLocation.Name,
		EndAddress:   item.Features.EndLocation.Name,
	}
	if !item.IsCar() {
		return summary
	}

	scores := item.Features.Scores
	safeness := roundHalfUp((score(scores, telemetry.ScoreAcceleration) +
		score(scores, telemetry.ScoreCornering) +
		score(scores, telemetry.ScoreBraking)) / 3.0)
	speed := score(scores, telemetry.ScoreSpeed)
	// The provider has no distraction score category; SPEED is reused.
	distraction := score(scores, telemetry.ScoreSpeed)
	total := roundHalfUp((speed + float64(safeness) + distraction) / 3.0)

	distance := item.Features.GPSStats.Distance
	avgSpeed := item.Features.GPSStats.AverageSpeed
	duration := roundHalfUp(float64(item.EndTs.Sub(item.StartTs).Milliseconds()) / 60000.0)

	summary.Scores = &Scores{
		Speed:       speed,
		Distraction: distraction,
		Safeness:    safeness,
		Total:       total,
	}
	summary.DistanceMeters = &distance
	summary.AverageSpeedKph = &avgSpeed
	summary.DurationMinutes = &duration
	return summary
}

func score(scores map[string]float64, category string) float64 {
	if v, ok := scores[category]; ok {
		return v
	}
	return defaultScore
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
