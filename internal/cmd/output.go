package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fredbi/benchfig/internal/pkg/chart"
	"github.com/fredbi/benchfig/internal/pkg/config"
	"github.com/fredbi/benchfig/internal/pkg/image"
	"github.com/fredbi/benchfig/internal/pkg/model"
	"github.com/fredbi/benchfig/internal/pkg/parser"
	"github.com/fredbi/benchfig/internal/pkg/style"
)

const stdio = "-"

// prepareConfig loads the configuration and applies CLI overrides.
//
// When a temporary HTML file is needed to produce a PNG, the returned cleanup function removes it.
// Callers that don't render anything (reports) should set noRender.
func (c *Command) prepareConfig(noRender bool) (cfg *config.Config, cleanup func(), err error) {
	if c.configSet {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.LoadOrDefaults(c.Config)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg, noRender); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	c.dump("resolved configuration", cfg)

	if cfg.Outputs.IsTemp {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, nil
	}

	return cfg, func() {}, nil
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config, noRender bool) error {
	cfg.IsJSON = c.IsJSON

	if c.Environment != "" {
		cfg.Environment = c.Environment
	}

	if c.OutputFile != "" && c.OutputFile != stdio {
		// an outfile is defined: infer the PNG file from the HTML file provided
		cfg.Outputs.HTMLFile = inferHTMLFile(c.OutputFile)
		wantsPng := c.Png || strings.EqualFold(path.Ext(c.OutputFile), ".png")
		if wantsPng {
			cfg.Outputs.PngFile = inferImageFile(cfg.Outputs.HTMLFile)
		}
	}

	if noRender {
		return nil
	}

	switch {
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile == "":
		c.L.Info("output sent to standard output as HTML, no PNG image rendered")
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}
		cfg.Outputs.HTMLFile = stdio
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile != "":
		c.L.Info("HTML generated as a temporary file to produce PNG")
		tmp, err := os.CreateTemp("", "benchfig.*.html")
		if err != nil {
			return err
		}
		cfg.Outputs.HTMLFile = tmp.Name()
		cfg.Outputs.IsTemp = true
		_ = tmp.Close()
	}

	return nil
}

// applyStyle initializes the process-wide font settings and returns a snapshot of them.
//
// The font-size flag takes precedence over the configuration. Without either, the default size applies.
func (c *Command) applyStyle(cfg *config.Config) style.Params {
	switch {
	case c.fontSizeSet:
		style.SetFonts(c.FontSize)
	case cfg.Style.FontSize != 0:
		style.SetFonts(cfg.Style.FontSize)
	default:
		style.SetFonts()
	}

	params := style.Current()
	c.L.Debug("fonts initialized", slog.Int("font_size", params.FontSize), slog.Any("font_family", params.FontFamily))

	return params
}

func (c *Command) newParser(stdin io.Reader) *parser.BenchmarkParser {
	return parser.New(parser.WithParseJSON(c.IsJSON), parser.WithStdin(stdin))
}

// render a page of figures as HTML, then as a PNG image when required.
//
// The "-" file stands for stdout.
func (c *Command) render(ctx context.Context, stdout io.Writer, cfg *config.Config, page *model.Page, params style.Params) error {
	// 1. build charts out of the figures
	htmlRenderer := chart.New(cfg.Render, params).BuildPage(page)

	// 2. render the page as HTML, possibly to stdout, possibly to temp file
	htmlWriter, htmlCloser, err := getWriter(cfg.Outputs.HTMLFile, "HTML", stdout)
	if err != nil {
		return err
	}

	if err := htmlRenderer.Render(htmlWriter); err != nil {
		htmlCloser()
		return fmt.Errorf("rendering page: %w", err)
	}

	htmlCloser()

	if cfg.Outputs.PngFile == "" {
		// html only: we're done
		return nil
	}

	if cfg.Outputs.HTMLFile == stdio {
		return errors.New("cannot render a PNG image from HTML sent to standard output")
	}

	// 3. convert the HTML page to a PNG image, possibly to stdout
	htmlReader, htmlCloser, err := getReader(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	pngWriter, pngCloser, err := getWriter(cfg.Outputs.PngFile, "PNG", stdout)
	if err != nil {
		return err
	}
	defer pngCloser()

	r := image.New(image.WithScreenshot(cfg.Render.Screenshot))

	t0 := time.Now()
	if err = r.Render(ctx, pngWriter, htmlReader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}
	c.L.Info("rendered PNG image", slog.String("file", cfg.Outputs.PngFile), slog.Duration("duration", time.Since(t0)))

	return nil
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func getWriter(file, kind string, stdout io.Writer) (wrt io.Writer, cleanup func(), err error) {
	if file == stdio {
		return stdout, func() {}, nil
	}

	f, err := os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = f.Close()
	}

	return f, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	image, _ := strings.CutSuffix(base, ext)

	return image + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	image, _ := strings.CutSuffix(base, ext)

	return image + ".png"
}
