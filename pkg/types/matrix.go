// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data structures of the ssget downloader:
// matrix index records, configuration, and the error taxonomy.
package types

import "time"

// FieldType labels the numeric field of a matrix.
type FieldType string

const (
	FieldReal    FieldType = "real"
	FieldBinary  FieldType = "binary"
	FieldComplex FieldType = "complex"
)

// Structure labels the symmetry structure of a matrix.
type Structure string

const (
	StructureSymmetric   Structure = "symmetric"
	StructureUnsymmetric Structure = "unsymmetric"
)

// MatrixRecord is one row of the SuiteSparse collection index. All derived
// fields (Field, Structure, Symmetric, SPD) are computed once when the index
// is parsed; records are never mutated afterwards.
type MatrixRecord struct {
	// Group is the collection/group the matrix belongs to (e.g. "Boeing").
	Group string `json:"group" yaml:"group"`

	// Name is the matrix name within its group (e.g. "ct20stif").
	Name string `json:"name" yaml:"name"`

	Rows int64 `json:"rows" yaml:"rows"`
	Cols int64 `json:"cols" yaml:"cols"`

	// NNZ is the number of stored nonzero entries.
	NNZ int64 `json:"nnz" yaml:"nnz"`

	Real    bool `json:"real" yaml:"real"`
	Binary  bool `json:"binary" yaml:"binary"`
	Complex bool `json:"complex" yaml:"complex"`

	// TwoDThree reports whether the matrix arises from a 2D/3D discretization.
	TwoDThree bool `json:"2d_3d" yaml:"2d_3d"`

	PosDef bool `json:"posdef" yaml:"posdef"`

	// PatternSymmetry and NumericalSymmetry are ratios in [0, 1].
	PatternSymmetry   float64 `json:"pattern_symmetry" yaml:"pattern_symmetry"`
	NumericalSymmetry float64 `json:"numerical_symmetry" yaml:"numerical_symmetry"`

	// Kind is the free-text problem kind (e.g. "structural problem").
	Kind string `json:"kind" yaml:"kind"`

	// PatternEntries counts pattern entries including explicit zeros. When the
	// index line omits the column it falls back to NNZ.
	PatternEntries int64 `json:"pattern_entries" yaml:"pattern_entries"`

	// Symmetric is derived: numerical symmetry >= 0.99.
	Symmetric bool `json:"symmetric" yaml:"symmetric"`

	// SPD is derived: symmetric, positive definite, real, and square.
	SPD bool `json:"spd" yaml:"spd"`

	Field     FieldType `json:"field" yaml:"field"`
	Structure Structure `json:"structure" yaml:"structure"`

	// MatrixID is the 1-based position among successfully parsed records.
	MatrixID int `json:"matrix_id" yaml:"matrix_id"`
}

// Square reports whether the matrix has as many rows as columns.
func (m MatrixRecord) Square() bool {
	return m.Rows == m.Cols
}

// IndexSnapshot is a captured copy of the full collection index together with
// the time it was taken. Snapshot validity is decided by comparing the capture
// time against the configured TTL.
type IndexSnapshot struct {
	Records  []MatrixRecord
	Captured time.Time
}

// Valid reports whether the snapshot is younger than ttl at time now.
func (s IndexSnapshot) Valid(now time.Time, ttl time.Duration) bool {
	return len(s.Records) > 0 && now.Sub(s.Captured) < ttl
}
