// Package batch runs the single-operation calculator over many rows with
// per-row error capture, preserving input order.
package batch

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// CellKind tags the raw content of a Cell.
type CellKind int

const (
	// CellEmpty is a missing or blank value.
	CellEmpty CellKind = iota
	// CellText holds unparsed text, such as a CSV field.
	CellText
	// CellNumber holds a value that arrived already numeric.
	CellNumber
)

// Cell is one untyped input value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Text returns a text cell, or an empty cell for "".
func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// String renders the cell as it would appear in a CSV field.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// UnmarshalJSON accepts null, numbers and strings.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Cell{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Text(s)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("cell must be a number, string or null: %w", err)
		}
		*c = Number(v)
	}
	return nil
}

// MarshalJSON writes numbers as numbers, text as strings and empty cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Number)
	case CellText:
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

// RawRow is one unvalidated batch input row.
type RawRow struct {
	MachineID     Cell `json:"machine_id"`
	MaterialID    Cell `json:"material_id"`
	InitialWeight Cell `json:"initial_weight_kg"`
	FinalWeight   Cell `json:"final_weight_kg"`
	ProcessTime   Cell `json:"time_min"`
}
