package clauseindex

import "fmt"

// schemaSQL returns the DDL for the clause cross-reference index: one
// row per detected clause, one row per cross-reference it makes to
// another clause/section/schedule, and a vec0 virtual table holding
// each clause's embedding for similarity lookups within the same
// document.
func schemaSQL(embeddingDim int) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS clauses (
    id INTEGER PRIMARY KEY,
    document_path TEXT NOT NULL,
    clause_number TEXT NOT NULL,
    depth INTEGER NOT NULL,
    heading TEXT,
    body TEXT NOT NULL,
    position_in_doc INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clauses_document ON clauses(document_path);

CREATE TABLE IF NOT EXISTS clause_definitions (
    id INTEGER PRIMARY KEY,
    clause_id INTEGER NOT NULL REFERENCES clauses(id) ON DELETE CASCADE,
    term TEXT NOT NULL,
    definition TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clause_refs (
    id INTEGER PRIMARY KEY,
    clause_id INTEGER NOT NULL REFERENCES clauses(id) ON DELETE CASCADE,
    ref_type TEXT NOT NULL,
    ref_target TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS vec_clauses USING vec0(
    clause_id INTEGER PRIMARY KEY,
    embedding float[%d]
);
`, embeddingDim)
}
