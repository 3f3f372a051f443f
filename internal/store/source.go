package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rotisserie/eris"

	"brain-service/internal/brain/catalog"
	"brain-service/internal/brain/model"
	"brain-service/internal/utils"
)

// Драйверы справочника в SQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultCatalogQuery: таблица product в том виде, в каком её ведут.
const DefaultCatalogQuery = `SELECT xname, brand2, proizvod2, litrag, category, subcategory FROM product`

// LoadCatalog читает справочник запросом query. Колонки сопоставляются
// так же, как у файлов, поэтому запрос может вернуть их в любом порядке.
func LoadCatalog(ctx context.Context, driver, dsn, query string, m catalog.Mapping) ([]model.CatalogRow, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "catalog driver %q", driver)
	}
	if query == "" {
		query = DefaultCatalogQuery
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", driver)
	}
	defer db.Close()

	cols, recs, err := queryRecords(ctx, db, query)
	if err != nil {
		return nil, err
	}
	rows, err := catalog.FromRecords(cols, recs, m)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: map columns")
	}
	return rows, nil
}

// queryRecords: колонки и строки результата как map[колонка]текст.
func queryRecords(ctx context.Context, db *sql.DB, query string) ([]string, []map[string]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, eris.Wrap(err, "catalog: query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, eris.Wrap(err, "catalog: columns")
	}

	var out []map[string]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, eris.Wrap(err, "catalog: scan")
		}
		rec := make(map[string]string, len(cols))
		for i, c := range cols {
			rec[c] = cellText(vals[i])
		}
		out = append(out, rec)
	}
	return cols, out, eris.Wrap(rows.Err(), "catalog: iterate")
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return utils.FormatFloat(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
