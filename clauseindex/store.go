// Package clauseindex implements the supplemental ClauseIndexEntry
// store: a per-document structural index of clause boundaries, defined
// terms, and cross references, backed by SQLite with sqlite-vec for
// similarity lookups across a single contract's own clauses. Nothing
// in C1-C10 depends on this package; it exists to give the
// sqlite-vec/go-sqlite3 dependency pair a home distinct from the
// flat in-memory case-law embedding archive.
package clauseindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jihoonpark/contractcore/chunker"
)

func init() {
	sqlite_vec.Auto()
}

// Store wraps the SQLite database backing the clause cross-reference
// index.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// Open creates or opens the index database at dbPath.
func Open(dbPath string, embeddingDim int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating clause index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening clause index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging clause index: %w", err)
	}
	if _, err := db.Exec(schemaSQL(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating clause index schema: %w", err)
	}
	return &Store{db: db, embeddingDim: embeddingDim}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IndexDocument splits text into clauses with the legal chunker and
// persists each one along with the definitions and cross references
// found inside it, and its embedding when embed is non-nil. Parts the
// chunker can't attribute a clause number to (document preamble) are
// skipped.
func (s *Store) IndexDocument(ctx context.Context, documentPath, text string, embed func(string) ([]float32, error)) error {
	parts := chunker.SplitByClauses(text)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clauses WHERE document_path = ?`, documentPath); err != nil {
		return err
	}

	position := 0
	for _, part := range parts {
		number, ok := chunker.ExtractClauseNumber(part)
		if !ok {
			continue
		}
		heading := firstLine(part)

		res, err := tx.ExecContext(ctx,
			`INSERT INTO clauses (document_path, clause_number, depth, heading, body, position_in_doc) VALUES (?, ?, ?, ?, ?, ?)`,
			documentPath, number, chunker.ClauseDepth(number), heading, part, position)
		if err != nil {
			return err
		}
		position++
		clauseID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, d := range chunker.ExtractDefinitions(part) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO clause_definitions (clause_id, term, definition) VALUES (?, ?, ?)`,
				clauseID, d.Term, d.Definition); err != nil {
				return err
			}
		}

		for _, r := range chunker.DetectCrossReferences(part) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO clause_refs (clause_id, ref_type, ref_target) VALUES (?, ?, ?)`,
				clauseID, r.Type, r.Target); err != nil {
				return err
			}
		}

		if embed != nil && part != "" {
			vec, err := embed(part)
			if err == nil && len(vec) == s.embeddingDim {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR REPLACE INTO vec_clauses (clause_id, embedding) VALUES (?, ?)`,
					clauseID, serializeFloat32(vec)); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// SimilarClauses returns up to k clause bodies in documentPath whose
// embeddings are nearest to query, via sqlite-vec's MATCH operator.
func (s *Store) SimilarClauses(ctx context.Context, documentPath string, query []float32, k int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.body
		FROM vec_clauses v
		JOIN clauses c ON c.id = v.clause_id
		WHERE v.embedding MATCH ? AND k = ? AND c.document_path = ?
		ORDER BY v.distance`,
		serializeFloat32(query), k, documentPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}
	return bodies, rows.Err()
}

func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
