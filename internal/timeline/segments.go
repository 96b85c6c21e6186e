package timeline

import (
	"strconv"

	"move-timeline/internal/shared/geo"
	"move-timeline/internal/telemetry"
)

// toleranceFactor is how far above the limit a speed still counts as YELLOW.
const toleranceFactor = 1.1

// ColourFor classifies an observed speed against the posted limit. Missing
// or zero values are treated as unknown and classify as GREEN.
func ColourFor(speed, limit *float64) Colour {
	if speed == nil || limit == nil || *speed == 0 || *limit == 0 || *speed <= *limit {
		return ColourGreen
	}
	if *speed <= *limit*toleranceFactor {
		return ColourYellow
	}
	return ColourRed
}

func pointColour(p telemetry.WayPoint) Colour {
	if p.Info == nil {
		return ColourGreen
	}
	return ColourFor(p.Info.Speed, p.Info.SpeedLimit)
}

// SectionDistances sums the length of every consecutive waypoint pair into
// the bucket of the point being arrived at.
func SectionDistances(points []telemetry.WayPoint) SectionDistance {
	var result SectionDistance
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		d := geo.HaversineKm(prev.Lat, prev.Lon, cur.Lat, cur.Lon)

		switch pointColour(cur) {
		case ColourGreen:
			result.Green += d
		case ColourYellow:
			result.Yellow += d
		case ColourRed:
			result.Red += d
		}
	}
	return result
}

// TripPoints renders waypoints as a coloured polyline.
func TripPoints(points []telemetry.WayPoint) []TripPoint {
	out := make([]TripPoint, 0, len(points))
	for _, p := range points {
		tp := TripPoint{
			IsoTime: p.Timestamp,
			Lat:     strconv.FormatFloat(p.Lat, 'f', -1, 64),
			Lon:     strconv.FormatFloat(p.Lon, 'f', -1, 64),
			Colour:  pointColour(p),
		}
		if p.Info != nil {
			tp.RoadLat = p.Info.OrigLat
			tp.RoadLon = p.Info.OrigLon
			tp.Speed = p.Info.Speed
			tp.SpeedLimit = p.Info.SpeedLimit
			tp.WayType = p.Info.WayType
		}
		out = append(out, tp)
	}
	return out
}
