package parser

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LocalFallbackParser extracts raw text from a PDF without the external
// OCR service, for offline development only. It must be wired behind an
// explicit opt-in flag — it is never a silent substitute for ParseFile's
// documented OCR contract, since it cannot recognize scanned/image-only
// pages the way forced OCR does.
type LocalFallbackParser struct{}

// ParseLocalFile extracts each page's plain text and joins them with a
// blank line, using the page's own content-stream order.
func (LocalFallbackParser) ParseLocalFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening local PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}
