package model

// PointSource identifies the provenance of an ingested point.
type PointSource string

// Known point sources.
const (
	SourceGoogle PointSource = "google"
	SourceOSM    PointSource = "osm"
	SourceTaxi   PointSource = "taxi"
)

// PointRecord is a single ingested point in WGS84 decimal degrees. Records
// are immutable once ingested; pipeline stages derive new collections rather
// than mutating them in place.
type PointRecord struct {
	ID     string      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Lat    float64     `json:"latitude"`
	Lon    float64     `json:"longitude"`
	Rating *float64    `json:"rating,omitempty"`
	Weight float64     `json:"weight,omitempty"`
	Source PointSource `json:"source"`
}

// EffectiveWeight returns the temporal weight, defaulting to 1.0 when the
// record carries none.
func (p PointRecord) EffectiveWeight() float64 {
	if p.Weight <= 0 {
		return 1.0
	}
	return p.Weight
}
