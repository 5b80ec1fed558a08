// Package table renders rows of values as left-aligned, column-padded text.
//
// Every column is as wide as its widest value (header included) plus
// Padding. Cells are measured in terminal cells, so double-width runes line
// up; for ASCII content that is the string length.
package table

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// Padding is added to the widest value of every column.
const Padding = 2

// Row maps a column name to its display value, a string or an integer.
type Row map[string]interface{}

// cell is the string form of the value at column name, "" when missing.
func (r Row) cell(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Widths computes the display width of each of columns across rows.
func Widths(columns []string, rows []Row) map[string]int {
	widths := make(map[string]int, len(columns))
	for _, c := range columns {
		max := 0
		for _, r := range rows {
			if w := runewidth.StringWidth(r.cell(c)); w > max {
				max = w
			}
		}
		widths[c] = max + Padding
	}
	return widths
}

// SortRows orders rows by the string form of key, keeping the input order of ties.
func SortRows(rows []Row, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].cell(key) < rows[j].cell(key)
	})
}

// Table is a header row followed by data rows that share its column names.
type Table struct {
	Columns []string
	Header  Row
	Rows    []Row
}

// New returns a Table whose header labels columns, in order.
func New(columns []Column) *Table {
	t := &Table{Header: Row{}}
	for _, c := range columns {
		t.Columns = append(t.Columns, c.Name)
		t.Header[c.Name] = c.Header
	}
	return t
}

// Column names a column and the label shown for it in the header row.
type Column struct {
	Name   string
	Header string
}

// Append adds a data row.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Lines renders the header followed by every data row.
func (t *Table) Lines() []string {
	all := make([]Row, 0, len(t.Rows)+1)
	all = append(all, t.Header)
	all = append(all, t.Rows...)
	widths := Widths(t.Columns, all)

	lines := make([]string, 0, len(all))
	var b strings.Builder
	for _, r := range all {
		b.Reset()
		for _, c := range t.Columns {
			b.WriteString(runewidth.FillRight(r.cell(c), widths[c]))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// Write renders the table to w, one line per row.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range t.Lines() {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
