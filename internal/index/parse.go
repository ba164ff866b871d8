// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"strconv"
	"strings"

	"github.com/pdiddy/ssget/pkg/types"
)

// parseIndex parses the CSV index body. The first two lines carry the record
// count and capture date and are skipped. Each remaining line is one record;
// lines with fewer than 12 comma-separated fields or unparsable numeric
// fields are dropped silently. Matrix IDs are assigned 1-based over the
// records that parse, in encounter order.
func parseIndex(content string) ([]types.MatrixRecord, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil, &types.IndexParseError{Reason: "missing header lines"}
	}

	var records []types.MatrixRecord
	for _, line := range lines[2:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m, ok := parseLine(line)
		if !ok {
			continue
		}
		m.MatrixID = len(records) + 1
		records = append(records, m)
	}
	return records, nil
}

// parseLine parses one CSV record line. The index uses plain comma-separated
// fields with no quoting. Column layout:
//
//	group, name, rows, cols, nnz, isReal, isBinary, is2D3D, posdef,
//	patternSymmetry, numericalSymmetry, kind[, patternEntries]
func parseLine(line string) (types.MatrixRecord, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 12 {
		return types.MatrixRecord{}, false
	}

	rows, err1 := strconv.ParseInt(parts[2], 10, 64)
	cols, err2 := strconv.ParseInt(parts[3], 10, 64)
	nnz, err3 := strconv.ParseInt(parts[4], 10, 64)
	isReal, err4 := parseFlag(parts[5])
	binary, err5 := parseFlag(parts[6])
	twoDThree, err6 := parseFlag(parts[7])
	posdef, err7 := parseFlag(parts[8])
	patternSym, err8 := strconv.ParseFloat(parts[9], 64)
	numericalSym, err9 := strconv.ParseFloat(parts[10], 64)
	for _, err := range []error{err1, err2, err3, err4, err5, err6, err7, err8, err9} {
		if err != nil {
			return types.MatrixRecord{}, false
		}
	}

	m := types.MatrixRecord{
		Group:             parts[0],
		Name:              parts[1],
		Rows:              rows,
		Cols:              cols,
		NNZ:               nnz,
		Real:              isReal,
		Binary:            binary,
		Complex:           !isReal,
		TwoDThree:         twoDThree,
		PosDef:            posdef,
		PatternSymmetry:   patternSym,
		NumericalSymmetry: numericalSym,
		Kind:              parts[11],
	}

	m.PatternEntries = nnz
	if len(parts) > 12 {
		pe, err := strconv.ParseInt(parts[12], 10, 64)
		if err != nil {
			return types.MatrixRecord{}, false
		}
		m.PatternEntries = pe
	}

	// Derived fields, fixed at parse time.
	m.Symmetric = m.NumericalSymmetry >= 0.99
	m.SPD = m.Symmetric && m.PosDef && m.Real && m.Square()

	switch {
	case m.Real:
		m.Field = types.FieldReal
	case m.Binary:
		m.Field = types.FieldBinary
	default:
		m.Field = types.FieldComplex
	}
	if m.Symmetric {
		m.Structure = types.StructureSymmetric
	} else {
		m.Structure = types.StructureUnsymmetric
	}

	return m, true
}

// parseFlag parses a 0/1 integer column into a bool. Any nonzero integer
// counts as set, matching the source data which only ever emits 0 and 1.
func parseFlag(s string) (bool, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
