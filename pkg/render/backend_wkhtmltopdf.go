package render

import (
	"context"
	"os"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// renderWkhtmltopdf converts via the native wkhtmltopdf binary. The
// library resolves the binary path (WKHTMLTOPDF_PATH is honored); a
// missing binary surfaces as ErrBackendUnavailable here even though the
// probe normally catches it first.
func renderWkhtmltopdf(ctx context.Context, htmlDoc, destPath string, geom pageGeometry) error {
	if p := os.Getenv("WKHTMLTOPDF_PATH"); p != "" {
		wkhtmltopdf.SetPath(p)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return &RenderError{Backend: BackendWkhtmltopdf, Message: err.Error(), Err: ErrBackendUnavailable}
	}

	margin := wkhtmltopdfMargins(geom)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(margin)
	pdfg.MarginBottom.Set(margin)
	pdfg.MarginLeft.Set(margin)
	pdfg.MarginRight.Set(margin)
	pdfg.NoOutline.Set(true)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlDoc))
	page.Encoding.Set("utf-8")
	page.PrintMediaType.Set(true)
	page.DisableSmartShrinking.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return &RenderError{Backend: BackendWkhtmltopdf, Message: err.Error(), Err: ErrConversionFailed}
	}
	if err := pdfg.WriteFile(destPath); err != nil {
		return &RenderError{Backend: BackendWkhtmltopdf, Message: err.Error(), Err: ErrConversionFailed}
	}
	return nil
}
