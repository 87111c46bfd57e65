// Package report loads reorder report workbooks into tables and caches the
// parsed result keyed by file contents.
package report

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

// dateLayouts are the formats excelize commonly yields for date cells,
// depending on the workbook's number format.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"2-Jan-06",
	time.RFC3339,
}

// Loader reads XLSX reorder reports. Parsed tables are cached by the SHA-1 of
// the file contents, so a cached load is indistinguishable from a fresh one.
type Loader struct {
	cache TableCache
}

func NewLoader(cache TableCache) *Loader {
	if cache == nil {
		cache = NewNoopTableCache()
	}
	return &Loader{cache: cache}
}

// Load reads and parses the report at path. A missing file is reported with
// the offending path; the caller decides whether that is fatal.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read report file %s: %w", path, err)
	}

	sum := sha1.Sum(data)
	key := hex.EncodeToString(sum[:])

	if table, ok, err := l.cache.Get(ctx, key); err == nil && ok {
		return table, nil
	} else if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("report cache lookup failed")
	}

	table, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report file %s: %w", path, err)
	}

	if err := l.cache.Set(ctx, key, table); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("report cache store failed")
	}

	return table, nil
}

// Parse reads the first sheet of an XLSX workbook. The first row is the
// header; every other row becomes a typed table row.
func Parse(r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var table *domain.Table
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}

		if table == nil {
			header := make([]string, len(record))
			for i, name := range record {
				header[i] = strings.TrimSpace(name)
			}
			table = domain.NewTable(header)
			continue
		}

		row := make(domain.Row, len(record))
		for i, raw := range record {
			row[i] = parseCell(raw)
		}
		table.Append(row)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	if table == nil {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	return table, nil
}

// parseCell types a raw cell string: number, then date, then text. A blank
// string is the missing-value cell.
func parseCell(raw string) domain.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Cell{}
	}

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return domain.NumberCell(v)
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return domain.DateCell(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
		}
	}

	return domain.TextCell(raw)
}
