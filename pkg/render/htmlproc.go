package render

import "strings"

// printStyleMarker tags the injected style block so repeated optimization
// passes are no-ops.
const printStyleMarker = `data-print-optimized="true"`

const printStyleBlock = `<style ` + printStyleMarker + `>
@media print {
    * {
        -webkit-print-color-adjust: exact !important;
        color-adjust: exact !important;
    }

    body {
        font-family: Arial, sans-serif;
        font-size: 12px;
        line-height: 1.4;
    }

    .container {
        max-width: 100%;
        padding: 0;
    }

    .section {
        page-break-inside: avoid;
        margin-bottom: 15px;
    }

    .experience-item, .education-item, .project-item {
        page-break-inside: avoid;
        margin-bottom: 12px;
    }

    .header {
        page-break-after: avoid;
    }

    .skills-grid {
        page-break-inside: avoid;
    }
}
</style>`

// OptimizeForPrint injects a fixed print-media style block immediately
// before the closing head tag, or prepends it when the document has no
// head. Idempotent: a document already carrying the block is returned
// unchanged.
func OptimizeForPrint(htmlDoc string) string {
	if strings.Contains(htmlDoc, printStyleMarker) {
		return htmlDoc
	}
	if i := strings.Index(strings.ToLower(htmlDoc), "</head>"); i >= 0 {
		return htmlDoc[:i] + printStyleBlock + htmlDoc[i:]
	}
	return printStyleBlock + htmlDoc
}

// ValidateMarkup reports whether the document is worth rendering: not
// blank and carrying both a root html marker and a body marker. Advisory
// only; callers may render unvalidated markup.
func ValidateMarkup(htmlDoc string) bool {
	if strings.TrimSpace(htmlDoc) == "" {
		return false
	}
	lower := strings.ToLower(htmlDoc)
	return strings.Contains(lower, "<html") && strings.Contains(lower, "<body")
}
