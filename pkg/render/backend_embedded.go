package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
)

// The embedded backend composes the PDF in-process. Its HTML writer only
// understands a small tag subset, so the document is reduced first:
// head/script/style are dropped, block structure becomes line breaks, and
// headings keep bold emphasis. Layout fidelity is intentionally lower than
// the browser-driven backends; margins and page size still match them.

var (
	reComment    = regexp.MustCompile(`(?s)<!--.*?-->`)
	reHead       = regexp.MustCompile(`(?is)<head\b.*?</head>`)
	reScript     = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	reStyleBlock = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	reHeading    = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	reListItem   = regexp.MustCompile(`(?i)<li[^>]*>`)
	reBlockClose = regexp.MustCompile(`(?i)</(?:p|div|li|ul|ol|tr|table|section|article|header|footer|main)>`)
	reStrong     = regexp.MustCompile(`(?i)<(/?)strong[^>]*>`)
	reEmphasis   = regexp.MustCompile(`(?i)<(/?)em[^>]*>`)
	reAnyTag     = regexp.MustCompile(`(?s)<[^>]*>`)
	reSpaceRun   = regexp.MustCompile(`[ \t\r\n]+`)
	reBreakRun   = regexp.MustCompile(`(?i)(<br>\s*){3,}`)
)

// basicTags are the tags the fpdf HTML writer understands and therefore
// survive reduction.
var basicTags = map[string]bool{
	"b": true, "i": true, "u": true, "a": true, "br": true, "center": true,
}

func renderEmbedded(htmlDoc, destPath string, geom pageGeometry) error {
	body := reduceToBasicHTML(htmlDoc)
	if strings.TrimSpace(body) == "" {
		return &RenderError{Backend: BackendEmbedded, Message: "no renderable text content", Err: ErrInvalidMarkup}
	}

	left, top, right, bottom := embeddedMargins(geom)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(left, top, right)
	pdf.SetAutoPageBreak(true, bottom)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	writer := pdf.HTMLBasicNew()
	writer.Write(5, tr(body))

	if err := pdf.OutputFileAndClose(destPath); err != nil {
		return &RenderError{Backend: BackendEmbedded, Message: err.Error(), Err: ErrConversionFailed}
	}
	return nil
}

// reduceToBasicHTML rewrites arbitrary HTML into the subset the embedded
// writer supports.
func reduceToBasicHTML(doc string) string {
	s := reComment.ReplaceAllString(doc, "")
	s = reHead.ReplaceAllString(s, "")
	s = reScript.ReplaceAllString(s, "")
	s = reStyleBlock.ReplaceAllString(s, "")

	s = reHeading.ReplaceAllString(s, "<br><b>$1</b><br>")
	s = reListItem.ReplaceAllString(s, "<br>- ")
	s = reBlockClose.ReplaceAllString(s, "<br>")
	s = reStrong.ReplaceAllString(s, "<${1}b>")
	s = reEmphasis.ReplaceAllString(s, "<${1}i>")

	s = reAnyTag.ReplaceAllStringFunc(s, func(tag string) string {
		name := strings.ToLower(strings.Trim(tag, "<>/ "))
		if i := strings.IndexAny(name, " \t\r\n>"); i >= 0 {
			name = name[:i]
		}
		if basicTags[name] {
			return tag
		}
		return ""
	})

	s = reSpaceRun.ReplaceAllString(s, " ")
	s = reBreakRun.ReplaceAllString(s, "<br><br>")
	return strings.TrimSpace(html.UnescapeString(s))
}
