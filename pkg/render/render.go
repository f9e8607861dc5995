// Package render converts HTML markup into paginated PDF documents using
// one of several interchangeable backends. Backend selection happens once,
// before the render attempt; there is no cross-backend fallback after a
// selected backend fails.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Backend identifies one of the rendering engines.
type Backend string

const (
	// BackendAuto defers selection to the probe's preference order.
	BackendAuto Backend = "auto"

	// BackendEmbedded composes the PDF in-process with no external
	// dependency. Always available.
	BackendEmbedded Backend = "embedded"

	// BackendWkhtmltopdf shells out to the native wkhtmltopdf binary.
	BackendWkhtmltopdf Backend = "wkhtmltopdf"

	// BackendChromium drives a headless Chrome/Chromium process that is
	// acquired and fully released per render call.
	BackendChromium Backend = "chromium"
)

// ResolveBackend maps the auto preference onto the first available
// backend in the probe's order. Explicit selections pass through
// unchanged. Callers recording which engine produced a document should
// resolve before rendering.
func ResolveBackend(b Backend) Backend {
	if b == "" || b == BackendAuto {
		return DetectAvailable()[0]
	}
	return b
}

// ParseBackend maps a user-supplied backend name onto a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendEmbedded:
		return BackendEmbedded, nil
	case BackendWkhtmltopdf:
		return BackendWkhtmltopdf, nil
	case BackendChromium:
		return BackendChromium, nil
	}
	return "", fmt.Errorf("unknown render backend %q", s)
}

// Options carries the page-layout settings shared by all backends. Margin
// accepts CSS length syntax ("0", "10mm", "0.5in", "12px"); the page size
// is fixed to A4 for this design.
type Options struct {
	Margin  string
	Backend Backend
}

// Renderer turns markup into PDF files. It holds no per-render state; a
// single Renderer may serve concurrent calls.
type Renderer struct {
	log *zap.Logger
}

func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Render converts html into a PDF at destPath and returns destPath. An
// explicitly requested backend that is not available fails with
// ErrBackendUnavailable; no other backend is tried in its place. A render
// failure on the selected backend is final.
func (r *Renderer) Render(ctx context.Context, html, destPath string, opts Options) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", &RenderError{Backend: opts.Backend, Message: "markup is blank", Err: ErrInvalidMarkup}
	}

	geom, err := resolveGeometry(opts.Margin)
	if err != nil {
		return "", &RenderError{
			Backend: opts.Backend,
			Message: fmt.Sprintf("margin %q: %v", opts.Margin, err),
			Err:     ErrConversionFailed,
		}
	}

	backend := opts.Backend
	if backend == "" || backend == BackendAuto {
		backend = ResolveBackend(backend)
	} else if !backendAvailable(backend) {
		return "", &RenderError{
			Backend: backend,
			Message: "backend not available on this host",
			Err:     ErrBackendUnavailable,
		}
	}

	if dir := filepath.Dir(destPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &RenderError{Backend: backend, Message: err.Error(), Err: ErrConversionFailed}
		}
	}

	r.log.Info("rendering document",
		zap.String("backend", string(backend)),
		zap.String("dest", destPath),
		zap.Float64("margin_mm", geom.MarginMM))

	switch backend {
	case BackendEmbedded:
		err = renderEmbedded(html, destPath, geom)
	case BackendWkhtmltopdf:
		err = renderWkhtmltopdf(ctx, html, destPath, geom)
	case BackendChromium:
		err = renderChromium(ctx, html, destPath, geom)
	default:
		err = &RenderError{Backend: backend, Message: "unsupported backend", Err: ErrBackendUnavailable}
	}
	if err != nil {
		return "", err
	}
	return destPath, nil
}
