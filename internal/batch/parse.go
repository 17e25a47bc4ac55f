package batch

import (
	"strconv"
	"strings"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// ParsedRow is a RawRow whose cells have been coerced to typed values.
type ParsedRow struct {
	MachineID  string
	MaterialID string
	Params     carbon.ProcessParameters
}

// ParseRow coerces the cells of row and returns a *carbon.ValidationError
// naming the first field that is missing, non-numeric or non-finite.
// Domain checks such as final <= initial are left to carbon.Calculate.
func ParseRow(row RawRow) (ParsedRow, error) {
	machineID, err := parseID("machine_id", row.MachineID)
	if err != nil {
		return ParsedRow{}, err
	}
	materialID, err := parseID("material_id", row.MaterialID)
	if err != nil {
		return ParsedRow{}, err
	}

	initial, err := parseNumber("initial_weight_kg", row.InitialWeight)
	if err != nil {
		return ParsedRow{}, err
	}
	final, err := parseNumber("final_weight_kg", row.FinalWeight)
	if err != nil {
		return ParsedRow{}, err
	}
	minutes, err := parseNumber("time_min", row.ProcessTime)
	if err != nil {
		return ParsedRow{}, err
	}

	return ParsedRow{
		MachineID:  machineID,
		MaterialID: materialID,
		Params: carbon.ProcessParameters{
			InitialWeightKg:    initial,
			FinalWeightKg:      final,
			ProcessTimeMinutes: minutes,
		},
	}, nil
}

func parseID(field string, c Cell) (string, error) {
	id := strings.TrimSpace(c.String())
	if id == "" {
		return "", carbon.NewValidationError(field, "is required")
	}
	return id, nil
}

func parseNumber(field string, c Cell) (float64, error) {
	var v float64
	switch c.Kind {
	case CellNumber:
		v = c.Number
	case CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return 0, carbon.NewValidationError(field, "is required")
		}
		s, ok := decimalPoint(s)
		parsed, err := strconv.ParseFloat(s, 64)
		if !ok || err != nil {
			return 0, carbon.NewValidationError(field, "could not parse numeric value "+strconv.Quote(c.Text))
		}
		v = parsed
	default:
		return 0, carbon.NewValidationError(field, "is required")
	}

	if !carbon.IsFinite(v) {
		return 0, carbon.NewValidationError(field, "non-finite value")
	}
	return v, nil
}

// decimalPoint rewrites a spreadsheet decimal comma ("5,5") to a point.
// A comma followed by exactly three digits reads as a thousands separator
// ("1,250") and is rejected, as is any mix of commas and points.
func decimalPoint(s string) (string, bool) {
	n := strings.Count(s, ",")
	if n == 0 {
		return s, true
	}
	if n > 1 || strings.Contains(s, ".") {
		return s, false
	}
	_, frac, _ := strings.Cut(s, ",")
	if len(frac) == 3 {
		return s, false
	}
	return strings.Replace(s, ",", ".", 1), true
}
