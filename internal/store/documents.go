package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Document is one stored tagged value.
type Document struct {
	Seq     int64  `json:"seq"`
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Tag     string `json:"tag"`
	Payload []byte `json:"payload"`
}

// Upgrade is one entry of a document's upgrade history.
type Upgrade struct {
	Seq        int64  `json:"seq"`
	DocumentID string `json:"document_id"`
	FromTag    string `json:"from_tag"`
	ToTag      string `json:"to_tag"`
}

// Insert stores a new document under a generated ID.
func (s *Store) Insert(ctx context.Context, kind, tag string, payload []byte) (Document, error) {
	doc := Document{ID: s.newID(), Kind: kind, Tag: tag, Payload: payload}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, kind, tag, payload)
		VALUES (?, ?, ?, ?)
	`, doc.ID, doc.Kind, doc.Tag, doc.Payload)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	doc.Seq, err = res.LastInsertId()
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// Put stores doc under its own ID.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - an existing document
// with the same ID is left untouched. doc.Seq is ignored.
func (s *Store) Put(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("put document: empty id")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, kind, tag, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, doc.ID, doc.Kind, doc.Tag, doc.Payload)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

// Get returns the document with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, kind, tag, payload
		FROM documents
		WHERE id = ?
	`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %q: %w", id, err)
	}
	return doc, nil
}

// List returns every document of kind in insertion order.
// Returns an empty slice (not nil) if there are none.
func (s *Store) List(ctx context.Context, kind string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, kind, tag, payload
		FROM documents
		WHERE kind = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Replace overwrites a document's tag and payload if its stored tag is
// still fromTag, and records the upgrade. Returns ErrNotFound for an
// unknown ID and ErrTagMismatch when the tag changed underneath the caller.
func (s *Store) Replace(ctx context.Context, id, fromTag, toTag string, payload []byte) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT tag FROM documents WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("replace %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("replace %q: %w", id, err)
		}
		if current != fromTag {
			return fmt.Errorf("replace %q: %w: stored %q, expected %q", id, ErrTagMismatch, current, fromTag)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE documents SET tag = ?, payload = ? WHERE id = ?
		`, toTag, payload, id); err != nil {
			return fmt.Errorf("replace %q: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO upgrades (document_id, from_tag, to_tag) VALUES (?, ?, ?)
		`, id, fromTag, toTag); err != nil {
			return fmt.Errorf("record upgrade of %q: %w", id, err)
		}
		return nil
	})
}

// History returns the upgrades recorded for a document, oldest first.
func (s *Store) History(ctx context.Context, id string) ([]Upgrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, document_id, from_tag, to_tag
		FROM upgrades
		WHERE document_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query upgrades: %w", err)
	}
	defer rows.Close()

	history := []Upgrade{}
	for rows.Next() {
		var u Upgrade
		if err := rows.Scan(&u.Seq, &u.DocumentID, &u.FromTag, &u.ToTag); err != nil {
			return nil, fmt.Errorf("scan upgrade: %w", err)
		}
		history = append(history, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upgrades: %w", err)
	}
	return history, nil
}

// CountByTag returns the number of documents of kind per tag.
func (s *Store) CountByTag(ctx context.Context, kind string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag, COUNT(*)
		FROM documents
		WHERE kind = ?
		GROUP BY tag
		ORDER BY tag COLLATE BINARY ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[tag] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Kinds returns the distinct document kinds, sorted.
func (s *Store) Kinds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT kind FROM documents ORDER BY kind COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query kinds: %w", err)
	}
	defer rows.Close()

	kinds := []string{}
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, fmt.Errorf("scan kind: %w", err)
		}
		kinds = append(kinds, kind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kinds: %w", err)
	}
	return kinds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	err := row.Scan(&doc.Seq, &doc.ID, &doc.Kind, &doc.Tag, &doc.Payload)
	return doc, err
}
