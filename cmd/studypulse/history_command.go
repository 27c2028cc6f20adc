package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"studypulse/internal/api"
	"studypulse/internal/sessions"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAssistant(func(assistant *api.Assistant) error {
				records, err := assistant.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.SessionsResponse{Success: true, Sessions: records})
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No sessions recorded yet")
					return nil
				}
				fmt.Fprintln(out, renderHistory(records))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, fmt.Sprintf("Number of sessions to show (max %d)", sessions.MaxHistory))
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderHistory(records []sessions.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Session", "Kind", "Label", "Score", "Recorded", "Recommendation"})
	for _, record := range records {
		tw.AppendRow(table.Row{
			record.ID,
			string(record.Analysis.Kind),
			displayLabel(record.Analysis.Label),
			fmt.Sprintf("%.1f", record.Analysis.Score),
			record.Timestamp,
			displayLabel(record.Recommendation.Key),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return strings.TrimRight(tw.Render(), "\n")
}
