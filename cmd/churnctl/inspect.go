package main

import (
	"ibnu-portfolio/pkg/services"

	"github.com/spf13/cobra"
)

func newInspectCmd(c *cli) *cobra.Command {
	var columns bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the classifier artifact diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := services.NewArtifactLoader(c.cfg.Model.ArtifactPath, c.cfg.Model.RuntimeVersion, c.logger)
			report := struct {
				Artifact services.ArtifactDiagnostics `json:"artifact"`
				Schema   []string                     `json:"schema,omitempty"`
			}{Artifact: loader.Diagnostics()}
			if columns {
				report.Schema = services.SchemaColumns()
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&columns, "columns", false, "include the column order the adapter produces")
	return cmd
}
