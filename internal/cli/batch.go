package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/service"
)

func newBatchCmd(st *state) *cobra.Command {
	var input, out string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Calculate every row of a batch CSV file",
		Long: "Calculate every row of a batch CSV file. Failing rows do not stop the batch; " +
			"they are reported with their row index. With --out the input rows are written back " +
			"with their results and errors appended.",
		Example: `  # Summary on the terminal
  carboncam batch --input parts.csv

  # Results file for a spreadsheet
  carboncam batch --input parts.csv --out Results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := readBatchFile(cmd, input)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), st.cfg, st.logger.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.svc.Batch(cmd.Context(), st.flags.scope, rows)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeBatchFile(out, rows, resp, st); err != nil {
					return err
				}
			}
			if st.flags.output == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return renderBatch(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "batch CSV file (- for stdin)")
	cmd.Flags().StringVar(&out, "out", "", "write the results CSV to this file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readBatchFile(cmd *cobra.Command, path string) ([]batch.RawRow, error) {
	if path == "-" {
		return batch.ReadCSV(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()
	return batch.ReadCSV(f)
}

func writeBatchFile(path string, rows []batch.RawRow, resp service.BatchResponse, st *state) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	if err := batch.WriteCSV(f, rows, resp.Outcome, st.cfg.Carbon.Rounding); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return f.Close()
}

func renderBatch(w io.Writer, resp service.BatchResponse) error {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	rows := make([][]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		costCell := ""
		if r.EnergyCost != nil {
			costCell = strconv.FormatFloat(*r.EnergyCost, 'f', 2, 64) + " " + r.Currency
		}
		rows = append(rows, []string{
			strconv.Itoa(r.RowIndex), r.MachineID, r.MaterialID,
			num(r.Result.TotalEnergyKWh), num(r.Result.TotalCarbonKg), costCell,
		})
	}
	if err := renderTable(w, []string{"Row", "Machine", "Material", "Energy (kWh)", "Carbon (kg)", "Cost"}, rows); err != nil {
		return err
	}

	for _, e := range resp.Errors {
		msg := fmt.Sprintf("row %d: %s", e.RowIndex, e.Message)
		if e.Field != "" {
			msg = fmt.Sprintf("row %d: %s: %s", e.RowIndex, e.Field, e.Message)
		}
		if err := renderWarning(w, msg); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d rows, %d succeeded, %d failed\n", resp.Total, resp.Succeeded, resp.Failed)
	return err
}
