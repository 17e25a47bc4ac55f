package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/cost"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/service"
)

type calculateFlags struct {
	req       service.CalculateRequest
	initial   float64
	final     float64
	minutes   float64
	intensity float64
	lang      string
}

func newCalculateCmd(st *state) *cobra.Command {
	var f calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate energy, carbon and cost of one operation",
		Example: `  # Steel part on the Mazak, Turkish grid
  carboncam calculate --machine cnc_1 --material mat_4140 --initial 10 --final 9.2 --time 30

  # Multi-rate tariff over the evening peak
  carboncam calculate --machine cnc_1 --material mat_4140 --initial 10 --final 9.2 --time 30 \
    --tariff Multi --start 16:30 --end 17:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.req.InitialWeightKg = &f.initial
			f.req.FinalWeightKg = &f.final
			f.req.TimeMin = &f.minutes
			if cmd.Flags().Changed("intensity") {
				f.req.CarbonIntensity = &f.intensity
			}
			tag, err := language.Parse(f.lang)
			if err != nil {
				return fmt.Errorf("invalid --lang %q: %w", f.lang, err)
			}

			a, err := newApp(cmd.Context(), st.cfg, st.logger.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.svc.Calculate(cmd.Context(), st.flags.scope, f.req)
			if err != nil {
				return err
			}
			if st.flags.output == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return renderCalculation(cmd.OutOrStdout(), resp, cost.NewFormatter(tag))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.req.MachineID, "machine", "", "machine id")
	fl.StringVar(&f.req.MaterialID, "material", "", "material id")
	fl.Float64Var(&f.initial, "initial", 0, "initial workpiece weight (kg)")
	fl.Float64Var(&f.final, "final", 0, "final workpiece weight (kg)")
	fl.Float64Var(&f.minutes, "time", 0, "process time (minutes)")
	fl.StringVar(&f.req.Region, "region", "", "grid region for the carbon factor")
	fl.Float64Var(&f.intensity, "intensity", 0, "carbon intensity override (kg CO2/kWh)")
	fl.StringVar(&f.req.TariffType, "tariff", "", "tariff type: Single or Multi")
	fl.StringVar(&f.req.Currency, "currency", "", "tariff currency")
	fl.StringVar(&f.req.OperationStartHHMM, "start", "", "operation start time (HH:MM); enables energy cost")
	fl.StringVar(&f.req.OperationEndHHMM, "end", "", "operation end time (HH:MM)")
	fl.StringVar(&f.lang, "lang", "en", "language for number formatting in table output")
	_ = cmd.MarkFlagRequired("machine")
	_ = cmd.MarkFlagRequired("material")
	_ = cmd.MarkFlagRequired("initial")
	_ = cmd.MarkFlagRequired("final")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func renderCalculation(w io.Writer, r service.CalculateResponse, fmtr *cost.Formatter) error {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	pairs := [][2]string{
		{"Machine", r.MachineID},
		{"Material", r.MaterialID},
		{"Removed weight (kg)", num(r.RemovedMaterialWeightKg)},
		{"Removed volume (cm³)", num(r.RemovedVolumeCm3)},
		{"Processing energy (kWh)", num(r.ProcessingEnergyKWh)},
		{"Idle energy (kWh)", num(r.IdleEnergyKWh)},
		{"Total energy (kWh)", num(r.TotalEnergyKWh)},
		{"Carbon (kg CO2)", num(r.TotalCarbonKg)},
		{"Carbon intensity", num(r.CarbonIntensity)},
		{"Efficiency score", strconv.Itoa(r.EfficiencyScore)},
	}
	if r.EnergyCost != nil {
		pairs = append(pairs, [2]string{"Energy cost", fmtr.Money(*r.EnergyCost, r.EnergyCurrency)})
	}
	if r.CalculationID != "" {
		pairs = append(pairs, [2]string{"Calculation id", r.CalculationID})
	}
	if err := renderPairs(w, "Calculation", pairs); err != nil {
		return err
	}

	if r.EnergyCostError != "" {
		if err := renderWarning(w, "Energy cost unavailable: "+r.EnergyCostError); err != nil {
			return err
		}
	}
	for _, tip := range r.OptimizationTips {
		if _, err := fmt.Fprintln(w, "• "+describeTip(tip.Code, tip.IdlePct, tip.IncreasePct)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, fmtr.Describe(r.Equivalents))
	return err
}

func describeTip(code string, idlePct, increasePct int) string {
	switch code {
	case carbon.TipIdleHigh:
		return fmt.Sprintf("Idle draw is %d%% of the energy; shorten setup and waiting time.", idlePct)
	case carbon.TipMaterialAluminumFeedRate:
		return fmt.Sprintf("Aluminium tolerates a feed rate about %d%% higher.", increasePct)
	default:
		return code
	}
}
