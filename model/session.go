package model

// Session is the per-client record retaining the last uploaded PDF's
// server path. An empty PDFFilePath means no file is currently attached.
type Session struct {
	PDFFilePath      string
	OriginalFilename string
}

// HasFile reports whether a contract file is currently attached.
func (s Session) HasFile() bool {
	return s.PDFFilePath != ""
}
