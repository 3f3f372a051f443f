package fileio

import (
	"bytes"
	"io"

	xls "github.com/extrame/xls"
	"github.com/rotisserie/eris"
)

// xlsCharsets: справочники из 1С обычно в cp1251, реже UTF-8 и KOI8-R.
var xlsCharsets = []string{"windows-1251", "utf-8", "koi8-r"}

// xlsProbeCols: сколько колонок смотрим в строке. Row.LastCol у старых
// файлов врёт, поэтому ширину листа считаем по непустым ячейкам.
const xlsProbeCols = 512

func openXLS(b []byte) (*xls.WorkBook, error) {
	var errs []error
	for _, cs := range xlsCharsets {
		wb, err := xls.OpenReader(bytes.NewReader(b), cs)
		if err == nil && wb != nil {
			return wb, nil
		}
		if err != nil {
			errs = append(errs, eris.Wrapf(err, "charset %s", cs))
		}
	}
	if len(errs) == 0 {
		return nil, eris.New("xls: workbook is empty")
	}
	return nil, eris.Wrap(errs[len(errs)-1], "xls: open workbook")
}

// xlsGrid читает первый лист целиком. Строки обрезаются до самой правой
// непустой ячейки листа, пустые строки остаются на своих местах.
func xlsGrid(sheet *xls.WorkSheet) [][]string {
	n := int(sheet.MaxRow) + 1
	grid := make([][]string, n)
	width := 0
	for i := 0; i < n; i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, xlsProbeCols)
		for j := range cells {
			cells[j] = normalizeCell(row.Col(j))
			if cells[j] != "" && j+1 > width {
				width = j + 1
			}
		}
		grid[i] = cells
	}
	if width == 0 {
		width = 1
	}
	for i, cells := range grid {
		if cells == nil {
			grid[i] = make([]string, width)
			continue
		}
		grid[i] = cells[:width:width]
	}
	return grid
}

func readXLS(r io.Reader, headerRow int) (Table, error) {
	if headerRow < 1 {
		return Table{}, eris.Errorf("xls: header row %d, want >= 1", headerRow)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return Table{}, eris.Wrap(err, "xls: read")
	}
	wb, err := openXLS(b)
	if err != nil {
		return Table{}, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return Table{}, nil
	}

	grid := xlsGrid(sheet)
	h := pickHeader(grid, headerRow)
	return Table{Headers: h, Rows: rowsToMaps(grid, h, headerRow)}, nil
}
