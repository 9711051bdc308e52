package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/athebyme/text-similarity/internal/business"
	"github.com/athebyme/text-similarity/pkg/config"
)

func newCompareCmd() *cobra.Command {
	var (
		configPath string
		metric     string
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "compare <text1> <text2>",
		Short: "Print the similarity of two texts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			registry, err := newRegistry(cfg.Similarity)
			if err != nil {
				return err
			}

			m, name, err := registry.Lookup(metric)
			if err != nil {
				return err
			}

			res := m.Compare(args[0], args[1])
			out := cmd.OutOrStdout()
			if !explain {
				fmt.Fprintln(out, res.Score)
				return nil
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Metric string `json:"metric"`
				business.Result
			}{Metric: name, Result: res})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration")
	cmd.Flags().StringVarP(&metric, "metric", "m", "", "similarity metric (ngram, jaro, jaro-winkler, levenshtein)")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the outcome and per-level scores as JSON")
	return cmd
}
