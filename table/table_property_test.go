//go:build property_test
// +build property_test

package table

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func Test_RenderedColumnsAreAligned(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("every line is the sum of the column widths", prop.ForAll(
		func(ids []string, counts []int) bool {
			tbl := New(runColumns)
			for i, id := range ids {
				tbl.Append(Row{"id": id, "count": counts[i%len(counts)]})
			}
			lines := tbl.Lines()
			if len(lines) != len(ids)+1 {
				return false
			}
			widths := Widths(tbl.Columns, append([]Row{tbl.Header}, tbl.Rows...))
			total := widths["id"] + widths["count"]
			for i, l := range lines {
				if len(l) != total {
					return false
				}
				if i > 0 && !strings.HasPrefix(l, ids[i-1]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOfN(3, gen.IntRange(0, 100000)),
	))

	properties.Property("width is at least content plus padding", prop.ForAll(
		func(values []string) bool {
			rows := []Row{{"v": "V"}}
			for _, v := range values {
				rows = append(rows, Row{"v": v})
			}
			w := Widths([]string{"v"}, rows)["v"]
			for _, r := range rows {
				if w < len(r["v"].(string))+Padding {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
