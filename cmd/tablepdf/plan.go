package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wudi/pdftable/drawer"
	"github.com/wudi/pdftable/observability"
	"github.com/wudi/pdftable/table"
)

func newPlanCmd(g *globals) *cobra.Command {
	opts := &pageFlags{}
	cmd := &cobra.Command{
		Use:   "plan <input>",
		Short: "Print which rows of a table land on which page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.merge(cmd, g.cfg)
			return runPlan(g, opts, args[0], cmd.InOrStdin())
		},
	}
	opts.register(cmd)
	return cmd
}

func runPlan(g *globals, opts *pageFlags, input string, stdin io.Reader) error {
	pageW, pageH, err := opts.size()
	if err != nil {
		return err
	}
	tbl, err := readTable(input, opts.format, stdin, importOptions(opts.tableWidth(pageW), g.logger, observability.NopMetrics{})...)
	if err != nil {
		return err
	}
	top := pageH - opts.topMargin
	pages, err := drawer.ComputePages(tbl, top, opts.bottomMargin, top)
	if err != nil {
		return err
	}
	g.logger.Debug("plan computed", observability.Int("pages", len(pages)))
	writePlan(g.stdout, tbl, pages)
	return nil
}

func writePlan(w io.Writer, tbl *table.Table, pages []drawer.PageData) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Page", "First row", "Last row", "Rows", "Height"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	total := 0.0
	for i, p := range pages {
		h := 0.0
		for r := p.FirstRow; r < p.FirstRowOnNextPage; r++ {
			h += tbl.Row(r).Height()
		}
		total += h
		tw.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.FirstRow),
			strconv.Itoa(p.FirstRowOnNextPage - 1),
			strconv.Itoa(p.Len()),
			fmt.Sprintf("%.2f", h),
		})
	}
	tw.SetFooter([]string{"", "", "", strconv.Itoa(tbl.NumRows()), fmt.Sprintf("%.2f", total)})
	tw.Render()
}
