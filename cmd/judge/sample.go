package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/agent-judge/internal/evaluation"
)

func newSampleCmd() *cobra.Command {
	var (
		count      int
		agentTypes []string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate sample test data for trying the evaluators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := evaluation.GenerateSampleData(count, agentTypes)

			// Emit as a runnable batch file: single-agent cases grouped
			// under one agent entry, workflows as-is.
			batch := batchFile{
				ProjectName: "default",
				Evaluations: data.MultiAgentTests,
			}
			if len(data.SingleAgentTests) > 0 {
				batch.Evaluations = append([]evaluation.BatchItem{{
					AgentID:    "sample-agent",
					TestCases:  data.SingleAgentTests,
					Evaluators: []string{"accuracy", "relevance", "helpfulness"},
				}}, batch.Evaluations...)
			}

			payload, err := yaml.Marshal(&batch)
			if err != nil {
				return fmt.Errorf("marshal sample data: %w", err)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(payload)
				return err
			}
			if err := os.WriteFile(outPath, payload, 0o644); err != nil {
				return fmt.Errorf("write %q: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d evaluations to %s\n", len(batch.Evaluations), outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 5, "number of test cases per kind")
	cmd.Flags().StringSliceVar(&agentTypes, "types", []string{"single", "multiagent"}, "kinds to generate: single, multiagent")
	cmd.Flags().StringVar(&outPath, "out", "", "write the batch file here instead of stdout")
	return cmd
}
