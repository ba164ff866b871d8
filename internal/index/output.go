// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pdiddy/ssget/pkg/types"
)

// FormatTable writes records as a human-readable table to w. total is the
// full match count before any listing limit was applied.
func FormatTable(w io.Writer, records []types.MatrixRecord, total int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No matrices found.")
		return
	}

	fmt.Fprintf(w, "%-6s  %-14s  %-20s  %12s  %12s  %14s  %-8s  %s\n",
		"ID", "Group", "Name", "Rows", "Cols", "NNZ", "Field", "Kind")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, m := range records {
		fmt.Fprintf(w, "%-6d  %-14s  %-20s  %12s  %12s  %14s  %-8s  %s\n",
			m.MatrixID,
			truncate(m.Group, 14),
			truncate(m.Name, 20),
			humanize.Comma(m.Rows),
			humanize.Comma(m.Cols),
			humanize.Comma(m.NNZ),
			m.Field,
			truncate(m.Kind, 30),
		)
	}

	fmt.Fprintf(w, "\n%d of %d matching matrices\n", len(records), total)
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(w io.Writer, records []types.MatrixRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// FormatRecord writes one record in long form to w.
func FormatRecord(w io.Writer, m types.MatrixRecord) {
	fmt.Fprintf(w, "%s/%s (id %d)\n", m.Group, m.Name, m.MatrixID)
	fmt.Fprintf(w, "  rows:               %s\n", humanize.Comma(m.Rows))
	fmt.Fprintf(w, "  cols:               %s\n", humanize.Comma(m.Cols))
	fmt.Fprintf(w, "  nonzeros:           %s\n", humanize.Comma(m.NNZ))
	fmt.Fprintf(w, "  pattern entries:    %s\n", humanize.Comma(m.PatternEntries))
	fmt.Fprintf(w, "  field:              %s\n", m.Field)
	fmt.Fprintf(w, "  structure:          %s\n", m.Structure)
	fmt.Fprintf(w, "  kind:               %s\n", m.Kind)
	fmt.Fprintf(w, "  pattern symmetry:   %.3f\n", m.PatternSymmetry)
	fmt.Fprintf(w, "  numerical symmetry: %.3f\n", m.NumericalSymmetry)
	fmt.Fprintf(w, "  positive definite:  %v\n", m.PosDef)
	fmt.Fprintf(w, "  SPD:                %v\n", m.SPD)
	fmt.Fprintf(w, "  2D/3D problem:      %v\n", m.TwoDThree)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
