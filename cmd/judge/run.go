package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/agent-judge/internal/evaluation"
)

// batchFile is the on-disk shape of a batch run.
type batchFile struct {
	ProjectName    string                 `yaml:"project_name" json:"project_name"`
	ExperimentName string                 `yaml:"experiment_name" json:"experiment_name"`
	Evaluations    []evaluation.BatchItem `yaml:"evaluations" json:"evaluations"`
}

func newRunCmd(st *cliState) *cobra.Command {
	var (
		projectName    string
		experimentName string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "run <batch-file>",
		Short: "Run a batch of evaluations from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := loadBatchFile(args[0])
			if err != nil {
				return err
			}
			if len(batch.Evaluations) == 0 {
				return fmt.Errorf("batch file %q contains no evaluations", args[0])
			}
			if projectName != "" {
				batch.ProjectName = projectName
			}
			if batch.ProjectName == "" {
				batch.ProjectName = "default"
			}
			if experimentName != "" {
				batch.ExperimentName = experimentName
			}

			svc, store, err := buildService(st)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary := svc.RunBatch(cmd.Context(), batch.Evaluations, batch.ProjectName, batch.ExperimentName)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			return printBatchSummary(cmd, summary)
		},
	}

	cmd.Flags().StringVar(&projectName, "project", "", "project name recorded with traces")
	cmd.Flags().StringVar(&experimentName, "experiment", "", "experiment name")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full summary as JSON")
	return cmd
}

func loadBatchFile(path string) (*batchFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var batch batchFile
	// yaml.v3 handles JSON input too.
	if err := yaml.Unmarshal(b, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file %q: %w", path, err)
	}
	return &batch, nil
}

func printBatchSummary(cmd *cobra.Command, summary evaluation.BatchSummary) error {
	out := cmd.OutOrStdout()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tID\tSCORE\tSTATUS")
	for i, entry := range summary.Results {
		switch {
		case entry.Failed():
			fmt.Fprintf(tw, "%d\terror\t-\t-\t%s\n", i+1, entry.Error)
		case entry.Agent != nil:
			fmt.Fprintf(tw, "%d\tagent\t%s\t%.2f\t%d/%d passed\n",
				i+1, entry.Agent.AgentID, entry.Agent.AverageScore,
				entry.Agent.PassedTests, entry.Agent.TotalTests)
		case entry.Workflow != nil:
			status := "failed"
			if entry.Workflow.Result.Passed {
				status = "passed"
			}
			fmt.Fprintf(tw, "%d\tworkflow\t%s\t%.2f\t%s\n",
				i+1, entry.Workflow.WorkflowID, entry.Workflow.Result.OverallScore, status)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nBatch %s: %d evaluations (%d ok, %d failed), %d tests (%d passed), average %.2f, %.0fms\n",
		summary.BatchID,
		summary.TotalEvaluations, summary.SuccessfulEvaluations, summary.FailedEvaluations,
		summary.TotalTests, summary.PassedTests,
		summary.OverallAverageScore, summary.ExecutionTimeMS)
	return nil
}
