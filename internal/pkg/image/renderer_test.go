package image //nolint:revive // it's okay for an internal package to use this name

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fredbi/benchfig/internal/pkg/config"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

// PNG magic bytes: 0x89 P N G
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := New()
		assert.Equal(t, defaultHeight, r.Height)
		assert.Equal(t, defaultWidth, r.Width)
		assert.Equal(t, defaultWait, r.SleepDuration)
		assert.Equal(t, defaultTimeout, r.Timeout)
		assert.False(t, r.NoSandbox)
	})

	t.Run("from config", func(t *testing.T) {
		r := New(WithScreenshot(config.Screenshot{Height: 600, Width: 800, Sleep: 2 * time.Second, NoSandbox: true}))
		assert.Equal(t, int64(600), r.Height)
		assert.Equal(t, int64(800), r.Width)
		assert.Equal(t, 2*time.Second, r.SleepDuration)
		assert.True(t, r.NoSandbox)
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		r := New(WithScreenshot(config.Screenshot{}), WithHeight(-1), WithSleep(-time.Second))
		assert.Equal(t, defaultHeight, r.Height)
		assert.Equal(t, defaultWidth, r.Width)
		assert.Equal(t, defaultWait, r.SleepDuration)
	})
}

func TestDataURL(t *testing.T) {
	const html = `<p style="color:#fff">50% done</p>`

	u := dataURL([]byte(html))
	prefix := "data:text/html;charset=utf-8;base64,"
	require.True(t, strings.HasPrefix(u, prefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, prefix))
	require.NoError(t, err)
	assert.Equal(t, html, string(decoded))
}

func TestRenderFailingReader(t *testing.T) {
	r := New()
	errExpected := errors.New("read failure")
	dest := &bytes.Buffer{}

	err := r.Render(t.Context(), dest, &failingReader{err: errExpected})
	require.Error(t, err)
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "read content")
	assert.Zero(t, dest.Len())
}

func TestRenderCancelledContext(t *testing.T) {
	skipIfNoBrowser(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := newTestRenderer().Render(ctx, &bytes.Buffer{}, strings.NewReader("<html></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taking screenshot")
}

func TestRenderFailingWriter(t *testing.T) {
	skipIfNoBrowser(t)

	html := `<html><body><p>hello</p></body></html>`
	errExpected := errors.New("write failure")

	err := newTestRenderer().Render(t.Context(), &failingWriter{err: errExpected}, strings.NewReader(html))
	require.Error(t, err)
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "writing screenshot")
}

func TestRenderSimpleHTML(t *testing.T) {
	skipIfNoBrowser(t)

	html := `<!DOCTYPE html><html><body style="background:#ffffff"><h1>Test</h1></body></html>`
	dest := &bytes.Buffer{}

	require.NoError(t, newTestRenderer().Render(t.Context(), dest, strings.NewReader(html)))

	output := dest.Bytes()
	require.NotEmpty(t, output)
	assert.True(t, bytes.HasPrefix(output, pngMagic),
		"output does not start with PNG magic bytes, got %x", output[:min(4, len(output))])
}

func TestRenderEmptyHTML(t *testing.T) {
	skipIfNoBrowser(t)

	dest := &bytes.Buffer{}
	require.NoError(t, newTestRenderer().Render(t.Context(), dest, strings.NewReader("")))

	// a blank page is still a valid screenshot
	assert.True(t, bytes.HasPrefix(dest.Bytes(), pngMagic),
		"expected valid PNG output even for empty HTML")
}

// helpers

func newTestRenderer() *Renderer {
	return New(WithNoSandbox(true), WithSleep(100*time.Millisecond), WithTimeout(30*time.Second))
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func skipIfNoBrowser(t *testing.T) {
	t.Helper()
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium browser found, skipping integration test")
}
