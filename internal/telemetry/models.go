package telemetry

import (
	"errors"
	"fmt"
	"time"
)

// TypeCar marks timeline items that carry full driving features.
const TypeCar = "CAR"

// Score categories reported by the provider.
const (
	ScoreAcceleration = "ACCELERATION"
	ScoreCornering    = "CORNERING"
	ScoreBraking      = "BRAKING"
	ScoreSpeed        = "SPEED"
)

// Raw driving-behaviour event types.
const (
	EventAcceleration = "ACCELERATION"
	EventCornering    = "CORNERING"
	EventBreaking     = "BREAKING"
)

// Raw distraction types, used both for windows and for SecondsPerType keys.
const (
	DistractionSwipeAndType       = "SWIPE_AND_TYPE"
	DistractionPhoneCall          = "PHONE_CALL"
	DistractionPhoneCallHandsFree = "PHONE_CALL_HANDS_FREE"
)

var ErrInvalidPayload = errors.New("invalid telemetry payload")

type TimelineItem struct {
	UserID   string    `json:"userId"`
	StartTs  time.Time `json:"startTs"`
	EndTs    time.Time `json:"endTs"`
	Type     string    `json:"type"`
	Features Features  `json:"features"`
}

type Features struct {
	StartLocation         Location              `json:"startLocation"`
	EndLocation           Location              `json:"endLocation"`
	Scores                map[string]float64    `json:"scores"`
	GPSStats              GPSStats              `json:"gpsStats"`
	DrivingBehaviorEvents DrivingBehaviorEvents `json:"drivingBehaviorEvents"`
	PhoneDistractions     PhoneDistractions     `json:"phoneDistractions"`
}

type Location struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Name     string  `json:"name,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
}

type GPSStats struct {
	Distance     float64 `json:"distance"`
	MaxSpeed     float64 `json:"maxSpeed"`
	AverageSpeed float64 `json:"averageSpeed"`
}

type DrivingBehaviorEvents struct {
	Events        []DrivingBehaviorEvent `json:"events"`
	ValidDuration float64                `json:"validDuration"`
}

type DrivingBehaviorEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Strength  float64   `json:"strength"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
}

type PhoneDistractions struct {
	Distractions   []DistractionWindow `json:"distractions"`
	SecondsPerType map[string]float64  `json:"secondsPerType"`
}

type DistractionWindow struct {
	Type  string    `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type WayPoint struct {
	Timestamp time.Time     `json:"timestamp"`
	Lat       float64       `json:"lat"`
	Lon       float64       `json:"lon"`
	Info      *WayPointInfo `json:"wayPointInfo,omitempty"`
}

// WayPointInfo is the optional map-matching context of a fix. Zero or
// missing speed values mean "unknown".
type WayPointInfo struct {
	Speed      *float64 `json:"speed,omitempty"`
	SpeedLimit *float64 `json:"speedLimit,omitempty"`
	WayType    string   `json:"wayType,omitempty"`
	OrigLat    *float64 `json:"origLat,omitempty"`
	OrigLon    *float64 `json:"origLon,omitempty"`
}

// ID is the epoch-second identifier of the item.
func (i TimelineItem) ID() int64 {
	return i.StartTs.Unix()
}

func (i TimelineItem) IsCar() bool {
	return i.Type == TypeCar
}

// Validate rejects items whose timestamps cannot describe a trip.
func (i TimelineItem) Validate() error {
	if i.StartTs.IsZero() {
		return fmt.Errorf("%w: timeline item without startTs", ErrInvalidPayload)
	}
	if i.EndTs.IsZero() {
		return fmt.Errorf("%w: timeline item %d without endTs", ErrInvalidPayload, i.ID())
	}
	if i.EndTs.Before(i.StartTs) {
		return fmt.Errorf("%w: timeline item %d ends before it starts", ErrInvalidPayload, i.ID())
	}
	return nil
}

func (p WayPoint) Validate() error {
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: waypoint at %s has coordinates out of range (%v, %v)",
			ErrInvalidPayload, p.Timestamp.Format(time.RFC3339), p.Lat, p.Lon)
	}
	return nil
}

func validateItems(items []TimelineItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validatePoints(points []WayPoint) error {
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
