package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dukex/flowgraph/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func printValidation(command *cli.Command, workflowID string, result *models.ValidationResult) error {
	w := command.Root().Writer

	if command.String("output") == "json" {
		return writeJSON(w, result)
	}

	status := "valid"
	if !result.Valid {
		status = "invalid"
	}

	fmt.Fprintf(w, "Workflow %s: %s (%d nodes, %d connected, %d isolated)\n",
		workflowID, status, result.Stats.TotalNodes, result.Stats.ConnectedNodes, result.Stats.IsolatedNodes)

	if len(result.Issues) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, issue := range result.Issues {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", issue.Severity, issue.Kind, location(issue), issue.Message)
	}

	return tw.Flush()
}

func location(issue models.ValidationIssue) string {
	switch {
	case issue.EdgeID != "":
		return "edge " + issue.EdgeID
	case len(issue.NodeIDs) > 0:
		return "nodes " + strings.Join(issue.NodeIDs, ",")
	case issue.NodeID != "":
		return "node " + issue.NodeID
	default:
		return "-"
	}
}

func printPlan(command *cli.Command, workflowID string, result *models.ExecutionOrderResult) error {
	w := command.Root().Writer

	if command.String("output") == "json" {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "Workflow %s: %d nodes in %d steps\n", workflowID, len(result.Order), len(result.ParallelGroups))

	for i, group := range result.ParallelGroups {
		fmt.Fprintf(w, "  %d. %s\n", i+1, strings.Join(group, ", "))
	}

	if result.HasCycles {
		fmt.Fprintf(w, "  cycle: %s\n", strings.Join(result.CycleNodes, ", "))
	}

	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s: %s\n", issue.Kind, issue.Message)
	}

	return nil
}

func printCompatibility(command *cli.Command, source, target models.PortType, result models.CompatibilityResult) error {
	w := command.Root().Writer

	if command.String("output") == "json" {
		return writeJSON(w, result)
	}

	verdict := "compatible"
	if !result.Compatible {
		verdict = "incompatible"
	}

	fmt.Fprintf(w, "%s -> %s: %s (%s)\n", source, target, verdict, result.Reason)

	return nil
}
