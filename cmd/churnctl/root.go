package main

import (
	"encoding/json"
	"fmt"
	"io"

	config "ibnu-portfolio/configs"
	"ibnu-portfolio/pkg/logging"
	"ibnu-portfolio/pkg/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds what PersistentPreRunE prepares for the subcommands.
type cli struct {
	configPath string
	artifact   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "churnctl",
		Short: "Operate the churn simulator offline",
		Long: `churnctl checks the feature schema, scores profiles and inspects the
classifier artifact with the same configuration the portfolio server uses.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.artifact != "" {
				cfg.Model.ArtifactPath = c.artifact
			}
			c.cfg = cfg

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			if c.logger, err = logging.New(level, "development"); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default configs/config.yaml)")
	root.PersistentFlags().StringVar(&c.artifact, "artifact", "", "override model.artifact_path")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCheckCmd(c), newScoreCmd(c), newInspectCmd(c))
	return root
}

// estimator wires the same chain as the server, without metrics or monitoring.
func (c *cli) estimator() (*services.ChurnEstimator, *services.ArtifactLoader, error) {
	adapter, err := services.NewFeatureAdapter(services.DefaultFormOptions(c.cfg.Model.CollectedFields...), services.DefaultFeatureValues)
	if err != nil {
		return nil, nil, err
	}
	tiers, err := services.TierPolicyByName(c.cfg.Model.TierPolicy)
	if err != nil {
		return nil, nil, err
	}
	gate, err := services.NewInferenceGate(c.cfg.FallbackPolicy(), tiers, c.logger)
	if err != nil {
		return nil, nil, err
	}
	loader := services.NewArtifactLoader(c.cfg.Model.ArtifactPath, c.cfg.Model.RuntimeVersion, c.logger)
	return services.NewChurnEstimator(adapter, gate, loader, nil, nil, c.logger), loader, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
