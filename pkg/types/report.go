package types

import "time"

// PartNumber is a number adjacent to at least one symbol.
type PartNumber struct {
	Ref   SpanRef `json:"ref"`
	Value uint64  `json:"value"`
	Width int     `json:"width"`
}

// Gear is a '*' adjacent to exactly two numbers.
type Gear struct {
	Ref     SpanRef    `json:"ref"`
	Numbers [2]SpanRef `json:"numbers"`
	Values  [2]uint64  `json:"values"`
	Ratio   uint64     `json:"ratio"`
}

// Report is the analysis of one schematic.
type Report struct {
	ID            SchematicID  `json:"id"`
	Rows          int          `json:"rows"`
	Spans         int          `json:"spans"`
	PartNumberSum uint64       `json:"part_number_sum"`
	GearRatioSum  uint64       `json:"gear_ratio_sum"`
	Parts         []PartNumber `json:"parts,omitempty"`
	Gears         []Gear       `json:"gears,omitempty"`
	AnalyzedAt    time.Time    `json:"analyzed_at"`
}
