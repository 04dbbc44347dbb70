// Package store persists discovered policy documents to a local SQLite
// database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poliscan/poliscan/internal/policy"
)

// Document is a persisted discovery result with its text metrics.
type Document struct {
	ID          string      `json:"id"`
	Domain      string      `json:"domain"`
	PolicyType  policy.Type `json:"policy_type"`
	URL         string      `json:"url"`
	Method      string      `json:"method"`
	Confirmed   bool        `json:"confirmed"`
	Score       float64     `json:"score"`
	Text        string      `json:"text,omitempty"`
	WordCount   int         `json:"word_count"`
	ReadingEase float64     `json:"reading_ease"`
	RetrievedAt time.Time   `json:"retrieved_at"`
}

// SaveResult reports what persistence did with a document. A re-crawl of a
// domain/type pair that is already stored is still a success; AlreadyExisted
// tells the caller nothing new was written.
type SaveResult struct {
	Document       *Document `json:"document"`
	AlreadyExisted bool      `json:"already_existed"`
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	domain        TEXT NOT NULL,
	policy_type   TEXT NOT NULL,
	url           TEXT NOT NULL,
	method        TEXT NOT NULL DEFAULT '',
	confirmed     INTEGER NOT NULL DEFAULT 0,
	score         REAL NOT NULL DEFAULT 0,
	text          TEXT NOT NULL DEFAULT '',
	word_count    INTEGER NOT NULL DEFAULT 0,
	reading_ease  REAL NOT NULL DEFAULT 0,
	retrieved_at  TIMESTAMP NOT NULL,
	UNIQUE (domain, policy_type)
);

CREATE INDEX IF NOT EXISTS idx_documents_domain ON documents (domain);
`

// Store is a SQLite-backed document store. Safe for concurrent use; SQLite
// serializes writers internally.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, applying the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	log.Info().Str("path", path).Msg("document store opened")

	return &Store{db: db}, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a document unless the (domain, policy_type) pair already
// exists, in which case the stored document is returned unchanged with
// AlreadyExisted set. Duplicate detection is by domain and type, not URL:
// sites move their policy pages, and the first crawl wins until deleted.
func (s *Store) Save(ctx context.Context, doc *Document) (*SaveResult, error) {
	existing, err := s.GetByDomain(ctx, doc.Domain, doc.PolicyType)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		log.Debug().Str("domain", doc.Domain).Str("policy_type", string(doc.PolicyType)).Msg("document already stored")
		return &SaveResult{Document: existing, AlreadyExisted: true}, nil
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if doc.RetrievedAt.IsZero() {
		doc.RetrievedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents
			(id, domain, policy_type, url, method, confirmed, score, text, word_count, reading_ease, retrieved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Domain, string(doc.PolicyType), doc.URL, doc.Method,
		doc.Confirmed, doc.Score, doc.Text, doc.WordCount, doc.ReadingEase, doc.RetrievedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	log.Info().
		Str("id", doc.ID).
		Str("domain", doc.Domain).
		Str("policy_type", string(doc.PolicyType)).
		Msg("document stored")

	return &SaveResult{Document: doc, AlreadyExisted: false}, nil
}

// Get returns a document by id
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	return s.queryOne(ctx, `SELECT `+columns+` FROM documents WHERE id = ?`, id)
}

// GetByDomain returns the stored document for a domain and policy type
func (s *Store) GetByDomain(ctx context.Context, domain string, policyType policy.Type) (*Document, error) {
	return s.queryOne(ctx,
		`SELECT `+columns+` FROM documents WHERE domain = ? AND policy_type = ?`,
		domain, string(policyType))
}

// List returns all documents, most recent first
func (s *Store) List(ctx context.Context) ([]*Document, error) {
	return s.queryMany(ctx, `SELECT `+columns+` FROM documents ORDER BY retrieved_at DESC`)
}

// Search returns documents whose domain, URL, or text matches the term
func (s *Store) Search(ctx context.Context, term string) ([]*Document, error) {
	pattern := "%" + term + "%"

	return s.queryMany(ctx,
		`SELECT `+columns+` FROM documents
		 WHERE domain LIKE ? OR url LIKE ? OR text LIKE ?
		 ORDER BY retrieved_at DESC`,
		pattern, pattern, pattern)
}

// Delete removes a document by id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

const columns = `id, domain, policy_type, url, method, confirmed, score, text, word_count, reading_ease, retrieved_at`

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (*Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	return doc, nil
}

func (s *Store) queryMany(ctx context.Context, query string, args ...any) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var (
		doc        Document
		policyType string
	)

	err := row.Scan(&doc.ID, &doc.Domain, &policyType, &doc.URL, &doc.Method,
		&doc.Confirmed, &doc.Score, &doc.Text, &doc.WordCount, &doc.ReadingEase, &doc.RetrievedAt)
	if err != nil {
		return nil, err
	}

	doc.PolicyType = policy.Type(policyType)

	return &doc, nil
}
