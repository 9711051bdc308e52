package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simserver",
	Short: "Lexical text similarity service",
	Long: `Scores how similar two texts are, from 0.0 to 1.0, by blending the
overlap of their words, bigrams and trigrams.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newServeCmd(), newCompareCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
