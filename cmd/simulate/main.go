package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"family_patrimony/pkg/core/config"
	"family_patrimony/pkg/core/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Yearly simulation of a family patrimony",
		Long: `simulate runs a family scenario year by year: revenues, taxes,
expenses, successions, and the investment or withdrawal of the
resulting cash position.`,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSimulation(path string) (*config.Simulation, error) {
	if path == "" {
		return nil, fmt.Errorf("--scenario is required")
	}
	scenario, err := config.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return scenario.Build()
}

func runCmd() *cobra.Command {
	var (
		scenarioPath string
		years        int
		asJSON       bool
		persist      bool
		lang         string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario",
		Example: `  simulate run --scenario family.yaml
  simulate run --scenario family.hjson --years 20 --json
  simulate run --scenario family.yaml --store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv(".env")
			if err != nil {
				return err
			}
			sim, err := loadSimulation(scenarioPath)
			if err != nil {
				return err
			}
			if sim.StartYear == 0 {
				sim.StartYear = env.StartYear
			}
			if sim.StartYear == 0 {
				return fmt.Errorf("no start year in the scenario nor in SIMULATION_START_YEAR")
			}
			switch {
			case years > 0:
			case sim.Years > 0:
				years = sim.Years
			default:
				years = env.Years
			}

			logger := log.New(os.Stderr, env.LogPrefix, log.LstdFlags)
			res, runErr := runSimulation(sim, years, logger)

			if persist && len(res.Lines) > 0 {
				if err := saveRun(cmd.Context(), env, sim, res, logger); err != nil {
					return err
				}
			}
			if asJSON {
				if err := writeJSONLines(cmd.OutOrStdout(), res.Lines); err != nil {
					return err
				}
			} else if err := writeSummary(cmd.OutOrStdout(), res, lang); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (.yaml, .yml, .hjson, .json)")
	cmd.Flags().IntVar(&years, "years", 0, "Number of simulated years (overrides the scenario)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write one JSON cash-flow line per year")
	cmd.Flags().BoolVar(&persist, "store", false, "Save the run (PostgreSQL if DATABASE_URL is set, local files otherwise)")
	cmd.Flags().StringVar(&lang, "lang", "fr", "Language of the summary amounts")
	return cmd
}

func saveRun(ctx context.Context, env config.Env, sim *config.Simulation, res *Result, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var repo *store.LedgerRepo
	if env.DatabaseURL == "" {
		logger.Printf("[store] DATABASE_URL not set, saving run to local files")
		repo = store.NewLedgerRepo(nil, "")
	} else {
		pool, err := store.Open(ctx, env.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = store.NewLedgerRepo(pool, "")
	}

	run := store.NewRun(sim.Name, sim.StartYear, res.Lines)
	if err := repo.Save(ctx, run); err != nil {
		return err
	}
	logger.Printf("[store] run %s saved (%d years)", run.ID, len(run.Lines))
	return nil
}

func validateCmd() *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a scenario: members, ownerships and clauses",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := loadSimulation(scenarioPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scenario '%s' is valid: %d members, %d assets\n",
				sim.Name, len(sim.Family.Members), len(sim.Patrimony.Ownables()))
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (.yaml, .yml, .hjson, .json)")
	return cmd
}
