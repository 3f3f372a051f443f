package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"brain-service/internal/brain/bootstrap"
	"brain-service/internal/brain/model"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the index from the catalog and save it",
	Long:  "Reads the reference catalog (spreadsheet or SQL table), builds the index and saves it to the index file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if v, _ := cmd.Flags().GetString("catalog"); v != "" {
			c.CatalogPath = v
			c.CatalogDriver = ""
		}
		if v, _ := cmd.Flags().GetString("out"); v != "" {
			c.BrainPath = v
		}

		opts, err := bootstrap.Options(c)
		if err != nil {
			return err
		}
		r, err := bootstrap.Build(cmd.Context(), c, opts, logger, nil)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "index saved to %s\n", c.BrainPath)
		return renderStats(cmd, r.Stats())
	},
}

func init() {
	buildCmd.Flags().String("catalog", "", "catalog file (overrides catalog_path and SQL source)")
	buildCmd.Flags().String("out", "", "index file, .xlsx or .db (overrides brain_path)")
	rootCmd.AddCommand(buildCmd)
}

func renderStats(cmd *cobra.Command, st model.Stats) error {
	rows := [][]string{
		{"canonicals", strconv.Itoa(st.Canonicals)},
		{"branded", strconv.Itoa(st.Branded)},
		{"generic", strconv.Itoa(st.Generic)},
		{"brands", strconv.Itoa(st.Brands)},
		{"synonyms", strconv.Itoa(st.Synonyms)},
		{"abbreviations", strconv.Itoa(st.Abbreviations)},
		{"aliases exact", strconv.Itoa(st.AliasesExact)},
		{"aliases cleaned", strconv.Itoa(st.AliasesCleaned)},
		{"aliases search key", strconv.Itoa(st.AliasesSearchKey)},
	}
	cats := make([]string, 0, len(st.Pools))
	for c := range st.Pools {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		rows = append(rows, []string{"pool " + c, strconv.Itoa(st.Pools[c])})
	}
	rows = append(rows,
		[]string{"fuzzy threshold", strconv.FormatFloat(st.FuzzyThreshold, 'f', -1, 64)},
		[]string{"brand fuzzy threshold", strconv.FormatFloat(st.BrandFuzzyThreshold, 'f', -1, 64)},
	)
	return renderTable(cmd.OutOrStdout(), []string{"METRIC", "VALUE"}, rows)
}
