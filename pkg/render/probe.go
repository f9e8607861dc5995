package render

import (
	"os"
	"os/exec"
)

// chromiumBinaries are the executable names probed for the chromium
// backend when CHROME_PATH is not set.
var chromiumBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// DetectAvailable reports the usable backends in fixed preference order:
// embedded first (compiled in, no external dependency), then wkhtmltopdf,
// then chromium. It never returns an empty list; the embedded backend is
// the statically-known default. Detection is a capability check only; a
// backend reported here can still fail at render time, and that failure
// is final for the call.
func DetectAvailable() []Backend {
	available := []Backend{BackendEmbedded}
	if backendAvailable(BackendWkhtmltopdf) {
		available = append(available, BackendWkhtmltopdf)
	}
	if backendAvailable(BackendChromium) {
		available = append(available, BackendChromium)
	}
	return available
}

func backendAvailable(b Backend) bool {
	switch b {
	case BackendEmbedded:
		return true
	case BackendWkhtmltopdf:
		if p := os.Getenv("WKHTMLTOPDF_PATH"); p != "" {
			if _, err := os.Stat(p); err == nil {
				return true
			}
		}
		_, err := exec.LookPath("wkhtmltopdf")
		return err == nil
	case BackendChromium:
		if p := os.Getenv("CHROME_PATH"); p != "" {
			if _, err := os.Stat(p); err == nil {
				return true
			}
		}
		for _, name := range chromiumBinaries {
			if _, err := exec.LookPath(name); err == nil {
				return true
			}
		}
		return false
	}
	return false
}
