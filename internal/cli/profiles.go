package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// newProfilesCmd creates the machines or materials command group.
func newProfilesCmd(st *state, kind string) *cobra.Command {
	cmd := &cobra.Command{Use: kind, Short: "Inspect " + kind}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in " + kind + " and those of --org",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), st.cfg, st.logger.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, reg, w := cmd.Context(), a.svc.Registry(), cmd.OutOrStdout()
			num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

			if kind == "machines" {
				list, err := reg.ListMachines(ctx, st.flags.scope)
				if err != nil {
					return err
				}
				if st.flags.output == OutputJSON {
					return writeJSON(w, list)
				}
				rows := make([][]string, 0, len(list))
				for _, m := range list {
					rows = append(rows, []string{m.ID, m.Name, m.Brand,
						num(m.StandbyPowerKW), num(m.OperatingPowerKW), strconv.FormatBool(m.Builtin)})
				}
				return renderTable(w, []string{"ID", "Name", "Brand", "Standby (kW)", "Max (kW)", "Built-in"}, rows)
			}

			list, err := reg.ListMaterials(ctx, st.flags.scope)
			if err != nil {
				return err
			}
			if st.flags.output == OutputJSON {
				return writeJSON(w, list)
			}
			rows := make([][]string, 0, len(list))
			for _, m := range list {
				rows = append(rows, []string{m.ID, m.Name, num(m.KcValue), num(m.Density), strconv.FormatBool(m.Builtin)})
			}
			return renderTable(w, []string{"ID", "Name", "Kc", "Density (kg/m³)", "Built-in"}, rows)
		},
	})
	return cmd
}
