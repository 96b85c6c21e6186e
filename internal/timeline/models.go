package timeline

import "time"

type Colour string

const (
	ColourGreen  Colour = "GREEN"
	ColourYellow Colour = "YELLOW"
	ColourRed    Colour = "RED"
)

type Scores struct {
	Speed       float64 `json:"speed"`
	Distraction float64 `json:"distraction"`
	Safeness    int64   `json:"safeness"`
	Total       int64   `json:"total"`
}

// TripSummary is the list-view representation of a timeline item. Scoring
// fields are only set for CAR trips.
type TripSummary struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	StartTs         time.Time `json:"startTs"`
	EndTs           time.Time `json:"endTs"`
	StartAddress    string    `json:"startAddress,omitempty"`
	EndAddress      string    `json:"endAddress,omitempty"`
	Scores          *Scores   `json:"scores,omitempty"`
	DistanceMeters  *float64  `json:"distanceMeters,omitempty"`
	AverageSpeedKph *float64  `json:"averageSpeedKph,omitempty"`
	DurationMinutes *int64    `json:"durationMinutes,omitempty"`
}

type TripDetail struct {
	TripSummary
	PreviousTripID *int64 `json:"previousTripId,omitempty"`
	NextTripID     *int64 `json:"nextTripId,omitempty"`

	// nil for non-CAR trips, which drops all of its fields from the JSON.
	*CarDetail
}

type CarDetail struct {
	TripPoints         []TripPoint        `json:"tripPoints"`
	SectionDistance    SectionDistance    `json:"sectionDistance"`
	DistractionDetails DistractionDetails `json:"distractionDetails"`
	DistractionEvents  []DistractionEvent `json:"distractionEvents"`
	DrivingEvents      []DrivingEvent     `json:"drivingEvents"`
}

type TripPoint struct {
	IsoTime    time.Time `json:"isoTime"`
	Lat        string    `json:"lat"`
	Lon        string    `json:"lon"`
	RoadLat    *float64  `json:"roadLat,omitempty"`
	RoadLon    *float64  `json:"roadLon,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	SpeedLimit *float64  `json:"speedLimit,omitempty"`
	Colour     Colour    `json:"colour"`
	WayType    string    `json:"wayType,omitempty"`
}

// SectionDistance holds kilometres travelled per compliance colour.
type SectionDistance struct {
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
	Red    float64 `json:"red"`
}

type DistractionDetails struct {
	DistractedSwipeTypeMinutes      int64   `json:"distractedSwipeTypeMinutes"`
	DistractedPhoneHandheldMinutes  int64   `json:"distractedPhoneHandheldMinutes"`
	DistractedPhoneHandsFreeMinutes int64   `json:"distractedPhoneHandsFreeMinutes"`
	TotalDistractedMinutes          int64   `json:"totalDistractedMinutes"`
	DistractionFreeMinutes          float64 `json:"distractionFreeMinutes"`
	DistractedSwipeTypePct          float64 `json:"distractedSwipeTypePct"`
	DistractedPhoneHandheldPct      float64 `json:"distractedPhoneHandheldPct"`
	DistractedPhoneHandsFreePct     float64 `json:"distractedPhoneHandsFreePct"`
	DistractionFreePct              float64 `json:"distractionFreePct"`
}

type DistractionEvent struct {
	Type            string    `json:"type,omitempty"`
	StartIsoTime    time.Time `json:"startIsoTime"`
	EndIsoTime      time.Time `json:"endIsoTime"`
	DurationMinutes int64     `json:"durationMinutes"`
}

type DrivingEvent struct {
	Time  time.Time `json:"time"`
	Lat   float64   `json:"lat"`
	Lon   float64   `json:"lon"`
	Value float64   `json:"value"`
	Type  string    `json:"type,omitempty"`
}
