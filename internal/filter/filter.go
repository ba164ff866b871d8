// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter matches matrix index records against optional criteria and
// parses the textual range expressions used on the command line.
package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/ssget/pkg/types"
)

// RangeBound is an inclusive integer interval. A nil endpoint is unbounded.
type RangeBound struct {
	Min *int64
	Max *int64
}

// Contains reports whether v falls within the bound.
func (r RangeBound) Contains(v int64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// ParseRange parses a range expression into a RangeBound. Accepted forms:
//
//	"5000"      exact value (5000, 5000)
//	"1000:5000" closed interval
//	":5000"     upper bound only
//	"1000:"     lower bound only
//
// Each side parses as an integer or a scientific-notation float truncated
// toward zero (so "1e6" means 1000000). The expression splits on the first
// colon only; anything after it must itself be a number, so "1000::2000" is
// rejected. Infinities and NaN are rejected.
func ParseRange(s string) (RangeBound, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return RangeBound{}, &types.InvalidRangeError{Input: s, Reason: "empty expression"}
	}

	if !strings.Contains(trimmed, ":") {
		v, err := parseBound(trimmed)
		if err != nil {
			return RangeBound{}, &types.InvalidRangeError{Input: s, Reason: err.Error()}
		}
		return RangeBound{Min: &v, Max: &v}, nil
	}

	left, right, _ := strings.Cut(trimmed, ":")
	if left == "" && right == "" {
		return RangeBound{}, &types.InvalidRangeError{Input: s, Reason: "both bounds empty"}
	}

	var bound RangeBound
	if left != "" {
		v, err := parseBound(left)
		if err != nil {
			return RangeBound{}, &types.InvalidRangeError{Input: s, Reason: "min bound: " + err.Error()}
		}
		bound.Min = &v
	}
	if right != "" {
		v, err := parseBound(right)
		if err != nil {
			return RangeBound{}, &types.InvalidRangeError{Input: s, Reason: "max bound: " + err.Error()}
		}
		bound.Max = &v
	}
	if bound.Min != nil && bound.Max != nil && *bound.Min > *bound.Max {
		return RangeBound{}, &types.InvalidRangeError{Input: s, Reason: "min exceeds max"}
	}
	return bound, nil
}

// parseBound parses one side of a range expression: an integer, or any finite
// float truncated toward zero.
func parseBound(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrRange
	}
	return int64(math.Trunc(f)), nil
}

// Filter selects matrix records. Every criterion is optional; unset criteria
// are not checked. All set criteria must match (logical AND).
type Filter struct {
	// SPD, when set, requires (true) or excludes (false) SPD matrices.
	SPD *bool

	// PosDef, when set, requires the posdef flag to equal the given value.
	PosDef *bool

	// Rows, Cols, and NNZ are inclusive size bounds.
	Rows *RangeBound
	Cols *RangeBound
	NNZ  *RangeBound

	// Field, Group, Name, Kind, and Structure are case-insensitive substring
	// matches against the corresponding record field.
	Field     string
	Group     string
	Name      string
	Kind      string
	Structure string
}

// IsEmpty reports whether no criteria are set. An empty filter matches
// every record.
func (f Filter) IsEmpty() bool {
	return f.SPD == nil && f.PosDef == nil &&
		f.Rows == nil && f.Cols == nil && f.NNZ == nil &&
		f.Field == "" && f.Group == "" && f.Name == "" &&
		f.Kind == "" && f.Structure == ""
}

// Matches reports whether the record satisfies every set criterion. It
// short-circuits on the first failing check.
func (f Filter) Matches(m types.MatrixRecord) bool {
	if f.SPD != nil && m.SPD != *f.SPD {
		return false
	}
	if f.PosDef != nil && m.PosDef != *f.PosDef {
		return false
	}
	if f.Rows != nil && !f.Rows.Contains(m.Rows) {
		return false
	}
	if f.Cols != nil && !f.Cols.Contains(m.Cols) {
		return false
	}
	if f.NNZ != nil && !f.NNZ.Contains(m.NNZ) {
		return false
	}
	if !containsFold(string(m.Field), f.Field) {
		return false
	}
	if !containsFold(m.Group, f.Group) {
		return false
	}
	if !containsFold(m.Name, f.Name) {
		return false
	}
	if !containsFold(m.Kind, f.Kind) {
		return false
	}
	if !containsFold(string(m.Structure), f.Structure) {
		return false
	}
	return true
}

// Apply returns the records matching the filter, preserving input order.
func (f Filter) Apply(records []types.MatrixRecord) []types.MatrixRecord {
	if f.IsEmpty() {
		return records
	}
	var out []types.MatrixRecord
	for _, m := range records {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// containsFold reports whether want is a case-insensitive substring of got.
// An empty want always matches; a non-empty want never matches an empty got.
func containsFold(got, want string) bool {
	if want == "" {
		return true
	}
	return strings.Contains(strings.ToLower(got), strings.ToLower(want))
}

// Bool returns a pointer to b, for setting the SPD and PosDef criteria.
func Bool(b bool) *bool { return &b }
