package main

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"brain-service/internal/brain/bootstrap"
	"brain-service/internal/brain/enrich"
	"brain-service/internal/fileio"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Fill brand, producer, volume and category for a spreadsheet of names",
	Long: "Reads a spreadsheet with a name column (xname, Наименование, Номенклатура), " +
		"resolves every row and writes the filled copy to an xlsx file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		in := args[0]
		headerRow, _ := cmd.Flags().GetInt("header-row")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = resolvedPath(in)
		}

		tbl, err := fileio.ReadTableFile(in, headerRow)
		if err != nil {
			return err
		}
		r, err := bootstrap.Open(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		res, err := enrich.Resolve(ctx, r, tbl, cfg.BatchWorkers)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		if err := fileio.WriteXLSX(f, res.Table.Sheet("Результат")); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "close %s", out)
		}

		if save, _ := cmd.Flags().GetBool("save-unresolved"); save {
			if _, err := bootstrap.SaveUnresolved(ctx, r, cfg.UnresolvedPath); err != nil {
				return err
			}
		}

		logger.Info().
			Str("in", in).
			Str("out", out).
			Int("rows", res.Summary.Rows).
			Int("updated", res.Summary.Updated).
			Int("skipped", res.Summary.Skipped).
			Msg("resolve done")
		return renderTable(cmd.OutOrStdout(), []string{"METRIC", "KEY", "COUNT"}, summaryRows(res.Summary))
	},
}

func init() {
	resolveCmd.Flags().String("out", "", "output xlsx (default <file>_resolved.xlsx)")
	resolveCmd.Flags().Int("header-row", 1, "header row number, 1-based")
	resolveCmd.Flags().Bool("save-unresolved", true, "save parsed names to the unresolved log")
	rootCmd.AddCommand(resolveCmd)
}

func resolvedPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + "_resolved.xlsx"
}

func summaryRows(s enrich.Summary) [][]string {
	rows := [][]string{
		{"rows", "", strconv.Itoa(s.Rows)},
		{"updated", "", strconv.Itoa(s.Updated)},
		{"skipped", "", strconv.Itoa(s.Skipped)},
	}
	// частые методы первыми
	methods := make([]string, 0, len(s.ByMethod))
	for m := range s.ByMethod {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		if s.ByMethod[methods[i]] != s.ByMethod[methods[j]] {
			return s.ByMethod[methods[i]] > s.ByMethod[methods[j]]
		}
		return methods[i] < methods[j]
	})
	for _, m := range methods {
		rows = append(rows, []string{"method", m, strconv.Itoa(s.ByMethod[m])})
	}
	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		rows = append(rows, []string{"category", c, strconv.Itoa(s.ByCategory[c])})
	}
	return rows
}
