package model

// Document is the opaque binary plus filename that lives for the
// duration of one upload request. Text is populated by the Document
// Parser; it may be empty.
type Document struct {
	Filename string
	Text     string
}

// IngestResult is the Ingestion Pipeline's (C7) output: the summary plus
// the toxic-clause highlights for one document.
type IngestResult struct {
	Summary    Summary
	Highlights []ToxicClause
}
