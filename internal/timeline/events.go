package timeline

import (
	"math"

	"move-timeline/internal/telemetry"
)

var drivingEventCodes = map[string]string{
	telemetry.EventAcceleration: "ACC",
	telemetry.EventCornering:    "CRN",
	telemetry.EventBreaking:     "BRK",
}

var distractionCodes = map[string]string{
	telemetry.DistractionSwipeAndType:       "SWP_TYPE",
	telemetry.DistractionPhoneCall:          "PH_HHELD",
	telemetry.DistractionPhoneCallHandsFree: "PH_HFREE",
}

// DrivingEventCode maps a raw behaviour type to its short code. Matching is
// exact and case-sensitive.
func DrivingEventCode(rawType string) (string, bool) {
	code, ok := drivingEventCodes[rawType]
	return code, ok
}

func DistractionCode(rawType string) (string, bool) {
	code, ok := distractionCodes[rawType]
	return code, ok
}

// DrivingEvents keeps every event; unmapped types are emitted without a code.
func DrivingEvents(events []telemetry.DrivingBehaviorEvent) []DrivingEvent {
	out := make([]DrivingEvent, 0, len(events))
	for _, e := range events {
		code, _ := DrivingEventCode(e.Type)
		out = append(out, DrivingEvent{
			Time:  e.Timestamp,
			Lat:   e.Lat,
			Lon:   e.Lon,
			Value: e.Strength,
			Type:  code,
		})
	}
	return out
}

func DistractionEvents(windows []telemetry.DistractionWindow) []DistractionEvent {
	out := make([]DistractionEvent, 0, len(windows))
	for _, w := range windows {
		code, _ := DistractionCode(w.Type)
		out = append(out, DistractionEvent{
			Type:            code,
			StartIsoTime:    w.Start,
			EndIsoTime:      w.End,
			DurationMinutes: int64(math.Floor(w.End.Sub(w.Start).Minutes())),
		})
	}
	return out
}
