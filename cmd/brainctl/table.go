package main

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderTable пишет таблицу в markdown-виде. Ширина колонок считается по
// экранной ширине, чтобы кириллица не разъезжалась.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(3, runewidth.StringWidth(h))
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := runewidth.StringWidth(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder
	line := func(cells []string) {
		sb.WriteString("|")
		for i, wd := range widths {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			sb.WriteString(" ")
			sb.WriteString(c)
			sb.WriteString(strings.Repeat(" ", wd-runewidth.StringWidth(c)))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	line(headers)
	sep := make([]string, len(widths))
	for i, wd := range widths {
		sep[i] = strings.Repeat("-", wd)
	}
	line(sep)
	for _, row := range rows {
		line(row)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
