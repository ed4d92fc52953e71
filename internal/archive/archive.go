// Package archive captures local snapshots of bookmarked pages with headless
// Chrome: a full-page screenshot, a thumbnail and a print-quality PDF.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	defaultTimeout    = 60 * time.Second
	screenshotQuality = 90
	defaultThumbWidth = 320
)

// Options holds configuration for page snapshots.
type Options struct {
	OutputDir string
	Timeout   time.Duration
}

// Result holds the paths written by a snapshot.
type Result struct {
	ScreenshotPath string
	ThumbnailPath  string
	PDFPath        string
}

// capturePage is a seam so tests can avoid launching a browser.
var capturePage = capturePageChrome

// Snapshot renders the page at url and writes <base>.png, <base>-thumb.png
// and <base>.pdf under opts.OutputDir.
func Snapshot(parentCtx context.Context, url, base string, opts Options) (*Result, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	png, pdf, err := capturePage(parentCtx, url, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", url, err)
	}

	return writeSnapshot(png, pdf, base, opts.OutputDir)
}

// PageTitle loads the page and returns its document title. Unlike a plain
// HTTP fetch this also covers titles set by JavaScript.
func PageTitle(parentCtx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var title string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Title(&title),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read title of %s: %w", url, err)
	}
	return title, nil
}

func capturePageChrome(parentCtx context.Context, url string, timeout time.Duration) (png, pdf []byte, err error) {
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	err = chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.FullScreenshot(&png, screenshotQuality),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, nil, err
	}
	return png, pdf, nil
}

func writeSnapshot(png, pdf []byte, base, dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	result := &Result{
		ScreenshotPath: filepath.Join(dir, base+".png"),
		ThumbnailPath:  filepath.Join(dir, base+"-thumb.png"),
		PDFPath:        filepath.Join(dir, base+".pdf"),
	}

	if err := os.WriteFile(result.ScreenshotPath, png, 0644); err != nil {
		return nil, fmt.Errorf("failed to write screenshot: %w", err)
	}
	if err := Thumbnail(png, result.ThumbnailPath, defaultThumbWidth); err != nil {
		return nil, err
	}
	if err := os.WriteFile(result.PDFPath, pdf, 0644); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	slog.Info("Archived page", "screenshot", result.ScreenshotPath, "pdf", result.PDFPath)
	return result, nil
}
