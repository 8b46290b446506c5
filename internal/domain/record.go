package domain

import "time"

// SourceTag identifies which upstream produced a record.
type SourceTag string

const (
	SourceDispatchTable SourceTag = "dispatch-table"
	SourceGeoFeature    SourceTag = "geo-feature"
)

// Coordinates is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location holds the administrative hierarchy plus the raw address text.
type Location struct {
	Region   string `json:"region,omitempty"`
	Province string `json:"province,omitempty"`
	District string `json:"district,omitempty"`
	Address  string `json:"address,omitempty"`
}

// AffectedCounts aggregates the people and housing units a report touches.
// Only the geo-feature source populates it; the dispatch table never does.
type AffectedCounts struct {
	Deaths       int `json:"deaths"`
	Injured      int `json:"injured"`
	Missing      int `json:"missing"`
	Displaced    int `json:"displaced"`
	Affected     int `json:"affected"`
	HousingUnits int `json:"housingUnits"`
}

// EmergencyRecord is the normalized, source-agnostic report shape served to
// the presentation layer. Both upstream mappers produce it.
type EmergencyRecord struct {
	ID                  string `json:"id"`
	SourceReferenceCode string `json:"sourceReferenceCode"`

	// ClassifiedType is a canonical category label, or the raw upstream
	// label when no rule matched.
	ClassifiedType    string `json:"type"`
	RawPhenomenonText string `json:"phenomenon,omitempty"`
	Description       string `json:"description,omitempty"`

	Location    Location     `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// OccurredAt is always UTC. When the upstream timestamp could not be
	// parsed, the ingestion time is substituted and TimeEstimated is set.
	OccurredAt    time.Time `json:"occurredAt"`
	TimeEstimated bool      `json:"timeEstimated,omitempty"`

	Affected *AffectedCounts `json:"affected,omitempty"`
	Source   SourceTag       `json:"source"`
}
