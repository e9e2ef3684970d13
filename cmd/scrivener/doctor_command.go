package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrivener/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the external binary, directories, and disk space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)

			if jsonOutput {
				type jsonResult struct {
					Name   string `json:"name"`
					Passed bool   `json:"passed"`
					Detail string `json:"detail"`
				}
				out := make([]jsonResult, 0, len(results))
				for _, result := range results {
					out = append(out, jsonResult{Name: result.Name, Passed: result.Passed, Detail: result.Detail})
				}
				if err := writeJSON(cmd, map[string]any{"checks": out}); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(results))
				for _, result := range results {
					status := "ok"
					if !result.Passed {
						status = "FAIL"
					}
					rows = append(rows, []string{result.Name, status, result.Detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Check", "Status", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}

			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
