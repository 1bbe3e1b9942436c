package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/pdftable/importer"
	"github.com/wudi/pdftable/observability"
	"github.com/wudi/pdftable/pdfdoc"
	"github.com/wudi/pdftable/table"
)

// pageFlags are the page geometry flags shared by render and plan.
type pageFlags struct {
	page         string
	topMargin    float64
	bottomMargin float64
	leftMargin   float64
	width        float64
	format       string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.page, "page", "a4", "page size: a4 or letter")
	f.Float64Var(&p.topMargin, "top-margin", 40, "top margin in points")
	f.Float64Var(&p.bottomMargin, "bottom-margin", 40, "bottom margin in points")
	f.Float64Var(&p.leftMargin, "left-margin", 40, "left margin in points")
	f.Float64Var(&p.width, "width", 0, "table width in points (default: page width minus both side margins)")
	f.StringVar(&p.format, "format", "", "input format: html, markdown or yaml (default: from the file extension)")
}

// merge fills the flags the user did not set from the config file.
func (p *pageFlags) merge(cmd *cobra.Command, cfg fileConfig) {
	changed := cmd.Flags().Changed
	if !changed("page") && cfg.Page != "" {
		p.page = cfg.Page
	}
	if !changed("top-margin") && cfg.TopMargin > 0 {
		p.topMargin = cfg.TopMargin
	}
	if !changed("bottom-margin") && cfg.BottomMargin > 0 {
		p.bottomMargin = cfg.BottomMargin
	}
	if !changed("left-margin") && cfg.LeftMargin > 0 {
		p.leftMargin = cfg.LeftMargin
	}
	if !changed("width") && cfg.Width > 0 {
		p.width = cfg.Width
	}
}

func (p *pageFlags) size() (float64, float64, error) {
	switch strings.ToLower(p.page) {
	case "a4":
		return pdfdoc.A4Width, pdfdoc.A4Height, nil
	case "letter":
		return pdfdoc.LetterWidth, pdfdoc.LetterHeight, nil
	}
	return 0, 0, fmt.Errorf("%w: unknown page size %q", errUsage, p.page)
}

func (p *pageFlags) tableWidth(pageWidth float64) float64 {
	if p.width > 0 {
		return p.width
	}
	return pageWidth - 2*p.leftMargin
}

func detectFormat(path, format string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			format = "html"
		case ".md", ".markdown":
			format = "markdown"
		case ".yaml", ".yml":
			format = "yaml"
		default:
			return "", fmt.Errorf("%w: cannot tell the format of %q, use --format", errUsage, path)
		}
	}
	switch format {
	case "html", "markdown", "yaml":
		return format, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", errUsage, format)
}

// readTable imports the table at path, "-" meaning standard input.
func readTable(path, format string, in io.Reader, opts ...importer.Option) (*table.Table, error) {
	format, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}
	r := in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
		opts = append(opts, importer.WithBaseDir(filepath.Dir(path)))
	}
	switch format {
	case "html":
		return importer.FromHTML(r, opts...)
	case "markdown":
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return importer.FromMarkdown(src, opts...)
	default:
		return importer.FromYAML(r, opts...)
	}
}

func importOptions(width float64, logger observability.Logger, m observability.Metrics) []importer.Option {
	return []importer.Option{
		importer.WithWidth(width),
		importer.WithLogger(logger),
		importer.WithImportMetrics(m),
	}
}
