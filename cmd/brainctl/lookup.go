package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"brain-service/internal/brain/bootstrap"
	"brain-service/internal/brain/model"
	"brain-service/internal/utils"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>...",
	Short: "Resolve product names",
	Long:  "Resolves each argument through the lookup cascade and prints the matched canonical product.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := bootstrap.Open(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		results, err := r.LookupBatch(ctx, args, cfg.BatchWorkers)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save-unresolved"); save {
			if _, err := bootstrap.SaveUnresolved(ctx, r, cfg.UnresolvedPath); err != nil {
				return err
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		return renderTable(cmd.OutOrStdout(), lookupHeaders, lookupRows(args, results))
	},
}

func init() {
	lookupCmd.Flags().Bool("json", false, "print results as JSON")
	lookupCmd.Flags().Bool("save-unresolved", false, "append parsed names to the unresolved log")
	rootCmd.AddCommand(lookupCmd)
}

var lookupHeaders = []string{"QUERY", "METHOD", "CONF", "ID", "BRAND", "PRODUCER", "VOLUME", "CATEGORY", "SUBCATEGORY"}

func lookupRows(queries []string, results []model.LookupResult) [][]string {
	rows := make([][]string, len(results))
	for i, res := range results {
		id := "-"
		if res.CanonicalID != nil {
			id = strconv.Itoa(*res.CanonicalID)
		}
		vol := ""
		if res.Volume > 0 {
			vol = utils.FormatFloat(res.Volume)
		}
		rows[i] = []string{
			queries[i],
			res.Method,
			strconv.FormatFloat(res.Confidence, 'f', 1, 64),
			id,
			res.Brand,
			res.Producer,
			vol,
			res.Category,
			res.Subcategory,
		}
	}
	return rows
}
