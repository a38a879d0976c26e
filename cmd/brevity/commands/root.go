package commands

import (
	"github.com/spf13/cobra"
)

// outputFormat controls output format (text, json).
var outputFormat string

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "brevity",
	Short: "Chain-of-density document summarizer",
	Long: `Brevity downloads a document, extracts its text and produces an
entity-dense summary, chunking documents that do not fit the model's context.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(modelsCmd)
}
