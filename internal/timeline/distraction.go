package timeline

import (
	"math"

	"move-timeline/internal/telemetry"
)

// AnalyzeDistraction breaks the per-type distraction seconds of a trip down
// into whole minutes and shares of the trip duration. Hands-free calls are
// reported but not counted as distracted time. A non-positive duration
// yields zero percentages.
func AnalyzeDistraction(secondsPerType map[string]float64, durationMinutes float64) DistractionDetails {
	handheld := wholeMinutes(secondsPerType[telemetry.DistractionPhoneCall])
	swipe := wholeMinutes(secondsPerType[telemetry.DistractionSwipeAndType])
	handsFree := wholeMinutes(secondsPerType[telemetry.DistractionPhoneCallHandsFree])

	distracted := handheld + swipe
	free := math.Max(0, durationMinutes-float64(distracted))

	return DistractionDetails{
		DistractedSwipeTypeMinutes:      swipe,
		DistractedPhoneHandheldMinutes:  handheld,
		DistractedPhoneHandsFreeMinutes: handsFree,
		TotalDistractedMinutes:          distracted,
		DistractionFreeMinutes:          free,
		DistractedSwipeTypePct:          percentOf(float64(swipe), durationMinutes),
		DistractedPhoneHandheldPct:      percentOf(float64(handheld), durationMinutes),
		DistractedPhoneHandsFreePct:     percentOf(float64(handsFree), durationMinutes),
		DistractionFreePct:              percentOf(free, durationMinutes),
	}
}

func wholeMinutes(seconds float64) int64 {
	return int64(math.Floor(seconds / 60))
}

func percentOf(minutes, durationMinutes float64) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	return 100 * minutes / durationMinutes
}
