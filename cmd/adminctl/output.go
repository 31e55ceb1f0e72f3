package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/simp-lee/backoffice/internal/domain"
)

// leadColumns are shown first, in this order, when a row has them.
var leadColumns = []string{
	"id", "code", "customerCode", "itemCode", "orgCode", "divisionCode", "listCode",
	"orderNumber", "name", "email", "status", "totalAmount", "isActive",
}

const maxColumns = 8

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPage(w io.Writer, page *domain.PaginatedResult[record]) error {
	if page == nil || len(page.Items) == 0 {
		_, err := fmt.Fprintln(w, "no records")
		return err
	}

	cols := columnsFor(page.Items)
	tw := tabwriter.NewWriter(w, 0, 1, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(cols, "\t")))
	for _, row := range page.Items {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = cell(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d, %d total\n", page.PageNumber, max(page.TotalPages, 1), page.TotalCount)
	return err
}

// columnsFor picks the lead columns present in any row, then fills up with
// the remaining scalar fields in name order.
func columnsFor(rows []record) []string {
	present := map[string]bool{}
	for _, row := range rows {
		for k, v := range row {
			if isScalar(v) {
				present[k] = true
			}
		}
	}

	cols := make([]string, 0, maxColumns)
	for _, c := range leadColumns {
		if present[c] && len(cols) < maxColumns {
			cols = append(cols, c)
			delete(present, c)
		}
	}
	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	slices.Sort(rest)
	for _, k := range rest {
		if len(cols) == maxColumns {
			break
		}
		cols = append(cols, k)
	}
	return cols
}

func printRecord(w io.Writer, rec record) error {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tw := tabwriter.NewWriter(w, 0, 1, 2, ' ', 0)
	var nested []string
	for _, k := range keys {
		if isScalar(rec[k]) {
			fmt.Fprintf(tw, "%s:\t%s\n", k, cell(rec[k]))
			continue
		}
		nested = append(nested, k)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, k := range nested {
		b, err := json.MarshalIndent(rec[k], "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s:\n%s\n", k, b)
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	default:
		return true
	}
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func rowLabel(i int, row record) string {
	for _, c := range leadColumns[1:8] {
		if s, ok := row[c].(string); ok && s != "" {
			return s
		}
	}
	return "#" + strconv.Itoa(i+1)
}
