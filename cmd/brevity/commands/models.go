package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

var modelsBufferFraction float64

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models and their token budgets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeModels(cmd.OutOrStdout(), modelsBufferFraction, outputFormat)
	},
}

func init() {
	modelsCmd.Flags().Float64Var(
		&modelsBufferFraction, "buffer-fraction", summarizer.DefaultBufferFraction,
		"Share of the context window usable by the prompt",
	)
}

type modelRow struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"maxTokens"`
	Budget    int    `json:"budget"`
	Encoding  string `json:"encoding"`
}

func writeModels(w io.Writer, fraction float64, format string) error {
	rows := make([]modelRow, 0, len(summarizer.Models()))
	for _, id := range summarizer.Models() {
		profile, err := summarizer.LookupModel(string(id))
		if err != nil {
			return err
		}
		budget, err := profile.ContextLength(fraction)
		if err != nil {
			return err
		}
		rows = append(rows, modelRow{Model: string(id), MaxTokens: profile.MaxTokens, Budget: budget, Encoding: profile.Encoding})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tMAX TOKENS\tBUDGET\tENCODING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Model, r.MaxTokens, r.Budget, r.Encoding)
	}
	return tw.Flush()
}
