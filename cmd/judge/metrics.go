package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-judge/internal/evaluation"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List available evaluation metrics and workflow types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := evaluation.MetricCatalog()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tNAME\tDESCRIPTION")
			writeCatalogSection(tw, "single", cat.SingleAgentMetrics)
			writeCatalogSection(tw, "multiagent", cat.MultiAgentMetrics)
			writeCatalogSection(tw, "workflow", cat.WorkflowTypes)
			return tw.Flush()
		},
	}
}

func writeCatalogSection(tw *tabwriter.Writer, kind string, entries map[string]string) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", kind, name, entries[name])
	}
}
