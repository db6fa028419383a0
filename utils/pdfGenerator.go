package utils

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"internhub/config"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderLayout controls page orientation and margins for a render.
// The zero value is portrait A4 with no margins.
type RenderLayout struct {
	Landscape    bool
	MarginInches float64
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string, layout RenderLayout) ([]byte, error)
}

// ChromeRenderer renders through a headless Chrome instance.
type ChromeRenderer struct{}

func (ChromeRenderer) RenderHTML(ctx context.Context, html string, layout RenderLayout) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if config.AppConfig.ChromeExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.AppConfig.ChromeExecPath))
	}

	timeout := time.Duration(config.AppConfig.RenderTimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// A4 in inches; swap the sides for landscape.
			paperWidth, paperHeight := 8.27, 11.69
			if layout.Landscape {
				paperWidth, paperHeight = paperHeight, paperWidth
			}
			buf, _, err := page.PrintToPDF().
				WithLandscape(layout.Landscape).
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(layout.MarginInches).
				WithMarginBottom(layout.MarginInches).
				WithMarginLeft(layout.MarginInches).
				WithMarginRight(layout.MarginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome render failed: %w", err)
	}
	return pdf, nil
}

// ValidatePDF rejects truncated or non-PDF output before it reaches storage.
func ValidatePDF(data []byte) error {
	if len(data) < 1000 {
		return fmt.Errorf("generated PDF too small: %d bytes", len(data))
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("generated file is not a valid PDF")
	}
	return nil
}
