package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// Input column names of the batch CSV template.
const (
	ColWeightIn   = "Weight_In"
	ColWeightOut  = "Weight_Out"
	ColTime       = "Time"
	ColMachineID  = "Machine_ID"
	ColMaterialID = "Material_ID"
)

// Output columns appended by WriteCSV.
const (
	ColRemovedWeight = "Removed_Weight_kg"
	ColTotalEnergy   = "Total_Energy_kWh"
	ColTotalCarbon   = "Total_Carbon_kg"
	ColEnergyCost    = "Energy_Cost"
	ColCurrency      = "Currency"
	ColAppliedRate   = "Applied_Rate_per_kWh"
	ColError         = "Error"
)

// TemplateColumns is the header of an empty batch file.
var TemplateColumns = []string{ColWeightIn, ColWeightOut, ColTime, ColMachineID, ColMaterialID}

// columnAliases maps lower-cased header names onto template columns.
var columnAliases = map[string]string{
	"weight_in":         ColWeightIn,
	"initial_weight":    ColWeightIn,
	"initial_weight_kg": ColWeightIn,
	"weight_out":        ColWeightOut,
	"final_weight":      ColWeightOut,
	"final_weight_kg":   ColWeightOut,
	"time":              ColTime,
	"time_min":          ColTime,
	"machine_id":        ColMachineID,
	"material_id":       ColMaterialID,
}

// ReadCSV parses a batch file. The header must name every template column
// (case-insensitive; a few API field names are accepted as aliases). Extra
// columns are ignored. Blank lines are skipped.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, carbon.NewValidationError("file", "batch file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch header: %w", err)
	}

	index := make(map[string]int, len(TemplateColumns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if col, ok := columnAliases[strings.ToLower(name)]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	var missing []string
	for _, col := range TemplateColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, carbon.NewValidationError("header", "missing columns: "+strings.Join(missing, ", "))
	}

	field := func(record []string, col string) Cell {
		i := index[col]
		if i >= len(record) {
			return Cell{}
		}
		return Text(strings.TrimSpace(record[i]))
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read batch row %d: %w", len(rows)+1, err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, RawRow{
			MachineID:     field(record, ColMachineID),
			MaterialID:    field(record, ColMaterialID),
			InitialWeight: field(record, ColWeightIn),
			FinalWeight:   field(record, ColWeightOut),
			ProcessTime:   field(record, ColTime),
		})
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteTemplate writes the header-only batch template.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateColumns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the input rows with their outcomes appended, one line per
// input row in input order. Result values are rounded with p.
func WriteCSV(w io.Writer, rows []RawRow, res Result, p carbon.Rounding) error {
	if len(rows) != len(res.Rows) {
		return fmt.Errorf("row count mismatch: %d inputs, %d outcomes", len(rows), len(res.Rows))
	}

	cw := csv.NewWriter(w)
	header := append(append([]string{}, TemplateColumns...),
		ColRemovedWeight, ColTotalEnergy, ColTotalCarbon, ColEnergyCost, ColCurrency, ColAppliedRate, ColError)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range rows {
		o := res.Rows[i]
		record := []string{
			row.InitialWeight.String(),
			row.FinalWeight.String(),
			row.ProcessTime.String(),
			row.MachineID.String(),
			row.MaterialID.String(),
			"", "", "", "", "", "", "",
		}
		if o.OK() {
			r := o.Result.Rounded(p)
			record[5] = formatFloat(r.RemovedMaterialWeightKg)
			record[6] = formatFloat(r.TotalEnergyKWh)
			record[7] = formatFloat(r.TotalCarbonKg)
			if o.EnergyCost != nil {
				record[8] = strconv.FormatFloat(*o.EnergyCost, 'f', 2, 64)
				record[9] = o.Currency
			}
			if o.AppliedRatePerKWh != nil {
				record[10] = formatFloat(*o.AppliedRatePerKWh)
			}
		} else if o.Err != nil {
			record[11] = o.Err.Error()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
