package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wudi/pdftable/drawer"
	"github.com/wudi/pdftable/observability"
	"github.com/wudi/pdftable/pdfdoc"
)

type renderOptions struct {
	pageFlags
	output         string
	compress       bool
	metrics        bool
	maxImagePixels int
	title          string
}

func newRenderCmd(g *globals) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a table to a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.merge(cmd, g.cfg)
			if !cmd.Flags().Changed("compress") && g.cfg.Compress != nil {
				opts.compress = *g.cfg.Compress
			}
			if !cmd.Flags().Changed("max-image-pixels") && g.cfg.MaxImagePixels > 0 {
				opts.maxImagePixels = g.cfg.MaxImagePixels
			}
			if !cmd.Flags().Changed("title") && g.cfg.Title != "" {
				opts.title = g.cfg.Title
			}
			return runRender(g, opts, args[0], cmd.InOrStdin())
		},
	}
	opts.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "PDF file to write (required)")
	f.BoolVar(&opts.compress, "compress", true, "compress page content streams")
	f.BoolVar(&opts.metrics, "metrics", false, "print render metrics to stderr")
	f.IntVar(&opts.maxImagePixels, "max-image-pixels", 0, "downsample images larger than this many pixels on their longer side")
	f.StringVar(&opts.title, "title", "", "document title")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runRender(g *globals, opts *renderOptions, input string, stdin io.Reader) error {
	pageW, pageH, err := opts.size()
	if err != nil {
		return err
	}

	var (
		reg     *prometheus.Registry
		metrics observability.Metrics = observability.NopMetrics{}
	)
	if opts.metrics {
		reg = prometheus.NewRegistry()
		p, err := observability.NewPrometheus(reg)
		if err != nil {
			return err
		}
		metrics = p
	}

	tbl, err := readTable(input, opts.format, stdin, importOptions(opts.tableWidth(pageW), g.logger, metrics)...)
	if err != nil {
		return err
	}

	doc := pdfdoc.New(
		pdfdoc.WithLogger(g.logger),
		pdfdoc.WithMaxImagePixels(opts.maxImagePixels),
		pdfdoc.WithInfo(opts.title, "tablepdf"),
	)
	defer doc.Close()
	td := drawer.New(tbl,
		drawer.WithStartX(opts.leftMargin),
		drawer.WithStartY(pageH-opts.topMargin),
		drawer.WithEndY(opts.bottomMargin),
		drawer.WithCompression(opts.compress),
		drawer.WithLogger(g.logger),
		drawer.WithMetrics(metrics),
	)
	if err := td.DrawPages(doc, doc.PageFactory(pageW, pageH), opts.topMargin); err != nil {
		return err
	}

	if err := writeFile(opts.output, doc); err != nil {
		return err
	}
	g.logger.Info("table rendered",
		observability.String("output", opts.output),
		observability.Int("pages", doc.NumPages()),
		observability.Int("rows", tbl.NumRows()),
		observability.Float64("final_y", td.FinalY()))

	if reg != nil {
		return printMetrics(g.stderr, reg)
	}
	return nil
}

func writeFile(path string, doc *pdfdoc.Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = doc.WriteTo(f)
	return err
}

// printMetrics writes every sample of reg as a name/labels/value table.
func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Metric", "Labels", "Value"})
	tw.SetAutoFormatHeaders(false)
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)
			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprint(m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("%d in %.4fs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			tw.Append([]string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	tw.Render()
	return nil
}
