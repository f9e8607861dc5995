package render

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// renderChromium drives a headless Chrome process through the DevTools
// protocol. The process is acquired per call and torn down on every exit
// path via the deferred cancels; it is never pooled or shared across
// renders.
func renderChromium(ctx context.Context, htmlDoc, destPath string, geom pageGeometry) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// No internal deadline: the caller's ctx flows through the allocator
	// chain and bounds the whole render.
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Chrome refuses data: URLs for printing in some versions, so the
	// document goes through a temp file like the original renderer did.
	tmpDir, err := os.MkdirTemp("", "tailor-render-")
	if err != nil {
		return &RenderError{Backend: BackendChromium, Message: err.Error(), Err: ErrConversionFailed}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(htmlDoc), 0o644); err != nil {
		return &RenderError{Backend: BackendChromium, Message: err.Error(), Err: ErrConversionFailed}
	}

	marginIn, paperWidthIn, paperHeightIn := chromiumGeometry(geom)

	var pdfBuf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return &RenderError{Backend: BackendChromium, Message: err.Error(), Err: ErrConversionFailed}
	}

	if err := os.WriteFile(destPath, pdfBuf, 0o644); err != nil {
		return &RenderError{Backend: BackendChromium, Message: err.Error(), Err: ErrConversionFailed}
	}
	return nil
}
