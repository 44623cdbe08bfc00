// Package image takes PNG screenshots of HTML chart pages with a headless browser.
package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Renderer knows how to take a screenshot from a HTML input and writes it as PNG.
type Renderer struct {
	options
	l *slog.Logger
}

// New builds an image [Renderer] from HTML.
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "image")),
	}
}

// Render a PNG image as a screenshot from a HTML input [io.Reader].
//
// The headless browser is stopped when ctx is cancelled.
func (r *Renderer) Render(ctx context.Context, dest io.Writer, source io.Reader) error {
	content, err := io.ReadAll(source)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	t0 := time.Now()
	screenshot, err := r.screenshot(ctx, content)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}
	r.l.Debug("screenshot taken", slog.Duration("duration", time.Since(t0)), slog.Int("bytes", len(screenshot)))

	if _, err = dest.Write(screenshot); err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	return nil
}

func (r *Renderer) screenshot(parent context.Context, content []byte) ([]byte, error) {
	allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if r.NoSandbox {
		allocatorOpts = append(allocatorOpts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocatorOpts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if r.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, r.Timeout)
		defer cancelTimeout()
	}

	const qualityPNG = 100 // 100 to force PNG

	var screenshot []byte
	err := chromedp.Run(ctx,
		chromedp.Emulate(device.Info{
			Height:    r.Height,
			Width:     r.Width,
			Landscape: true,
		}),
		chromedp.Navigate(dataURL(content)),
		chromedp.Sleep(r.SleepDuration), // echarts animates the first rendering
		chromedp.FullScreenshot(&screenshot, qualityPNG),
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}

// dataURL encodes the page, so characters such as '#' in inline scripts do not truncate the URL.
func dataURL(content []byte) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(content)
}
