package stats

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders rows as a human-readable table to w, in the style of
// internal/analyzers/common/formatter.go's go-pretty usage, with a footer
// summarizing total hits and bytes changed.
func WriteTable(w io.Writer, title string, rows []Row, bytesChanged int) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"conv_type", "api_family", "src_name", "hit_count", "unsupported"})

	var total int

	for _, r := range rows {
		total += r.HitCount
		tbl.AppendRow(table.Row{r.ConvType.String(), r.APIFamily.String(), r.SrcName, r.HitCount, r.Unsupported})
	}

	tbl.AppendFooter(table.Row{"", "", "total", total, humanize.Bytes(uint64(bytesChanged)) + " changed"})

	fmt.Fprintf(w, "%s:\n", title)
	tbl.Render()
}

// WriteCSV writes rows in the `-o-stats` file format: one row per counted
// rename, columns conv_type, api_family, src_name, hit_count, unsupported.
// encoding/csv is stdlib here deliberately — this is a fixed five-column
// flat format with no quoting/schema complexity a third-party CSV library
// in the retrieved examples would meaningfully improve on (see DESIGN.md).
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"conv_type", "api_family", "src_name", "hit_count", "unsupported"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.ConvType.String(),
			r.APIFamily.String(),
			r.SrcName,
			fmt.Sprintf("%d", r.HitCount),
			fmt.Sprintf("%t", r.Unsupported),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	return cw.Error()
}
