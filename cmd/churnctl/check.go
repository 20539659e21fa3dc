package main

import (
	"errors"
	"fmt"

	"ibnu-portfolio/pkg/models"
	"ibnu-portfolio/pkg/services"

	"github.com/spf13/cobra"
)

func newCheckCmd(c *cli) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the feature schema and probe the classifier artifact",
		Long: `check fails when a form option has no mapping onto a trained label or a
trained column has no source. With --strict an unusable artifact fails too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			options := services.DefaultFormOptions(c.cfg.Model.CollectedFields...)

			if err := services.CheckSchema(options, services.DefaultFeatureValues); err != nil {
				fmt.Fprintln(out, "schema: FAIL")
				var defect *services.ConfigurationDefectError
				for _, e := range unjoin(err) {
					if errors.As(e, &defect) {
						fmt.Fprintf(out, "  - %s\n", defect.Error())
					}
				}
				return err
			}
			fmt.Fprintf(out, "schema: ok (%d columns)\n", len(services.SchemaColumns()))

			estimator, loader, err := c.estimator()
			if err != nil {
				return err
			}
			diag := loader.Diagnostics()
			if !diag.Usable {
				fmt.Fprintf(out, "artifact: unusable (%s)\n", diag.Error)
				if strict {
					return errors.New("classifier artifact is not usable")
				}
				return nil
			}

			est, err := estimator.Estimate(probeProfile(options))
			if err != nil {
				return err
			}
			if est.Result.Provenance != models.ProvenanceModel {
				fmt.Fprintf(out, "artifact: probe fell back (%s)\n", est.Result.FallbackReason)
				if strict {
					return errors.New("classifier artifact rejected the probe vector")
				}
				return nil
			}
			fmt.Fprintf(out, "artifact: ok (runtime %s, probe probability %s)\n", diag.RuntimeVersion, formatProbability(est.Result.Probability))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the artifact cannot score")
	return cmd
}

// probeProfile is the form's default submission.
func probeProfile(options services.FormOptions) models.CustomerProfile {
	def := func(name string) float64 {
		f, _ := options.NumericByName(name)
		return f.Default
	}
	cat := func(name string) string {
		for _, f := range options.Categorical {
			if f.Name == name {
				return f.Default
			}
		}
		return ""
	}
	return models.CustomerProfile{
		Gender:           cat("gender"),
		MaritalStatus:    cat("marital_status"),
		CardCategory:     cat("card_category"),
		Tenure:           int(def("tenure")),
		Products:         int(def("products")),
		InactiveMonths:   int(def("inactive_months")),
		Contacts:         int(def("contacts")),
		TransCount:       int(def("trans_ct")),
		TransAmount:      def("trans_amt"),
		RevolvingBalance: def("revolving_bal"),
		UtilizationRatio: def("utilization_ratio"),
	}
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func formatProbability(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *p)
}
