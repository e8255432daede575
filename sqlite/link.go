package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/relistan/shorten"
)

// Compile-time interface verification.
var (
	_ shorten.LinkStore   = (*LinkStore)(nil)
	_ shorten.HashScanner = (*LinkStore)(nil)
)

// LinkStore implements shorten.LinkStore using SQLite.
type LinkStore struct {
	db *DB
}

// NewLinkStore creates a new LinkStore.
func NewLinkStore(db *DB) *LinkStore {
	return &LinkStore{db: db}
}

// InsertShortLink writes the forward and reverse mappings for link in a
// single transaction. Existing rows for the same code or hash are replaced.
func (s *LinkStore) InsertShortLink(ctx context.Context, link *shorten.ShortLink) error {
	if link.ShortCode == "" || link.URL == "" || link.Hash == "" {
		return shorten.Errorf(shorten.EINVALID, "short link requires code, URL and hash")
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO forward (code, url, created_at)
		VALUES (?, ?, ?)
	`, link.ShortCode, link.URL, createdAt); err != nil {
		return fmt.Errorf("failed to insert forward mapping: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO reverse (hash, code, created_at)
		VALUES (?, ?, ?)
	`, link.Hash, link.ShortCode, createdAt); err != nil {
		return fmt.Errorf("failed to insert reverse mapping: %w", err)
	}

	return tx.Commit()
}

// FindURLByCode returns the URL stored for code.
func (s *LinkStore) FindURLByCode(ctx context.Context, code string) (string, error) {
	var url string
	err := s.db.QueryRowContext(ctx, `
		SELECT url FROM forward WHERE code = ?
	`, code).Scan(&url)

	if errors.Is(err, sql.ErrNoRows) {
		return "", shorten.Errorf(shorten.ENOTFOUND, "code not found")
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

// FindCodeByHash returns the short code stored for a URL hash.
func (s *LinkStore) FindCodeByHash(ctx context.Context, hash string) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx, `
		SELECT code FROM reverse WHERE hash = ?
	`, hash).Scan(&code)

	if errors.Is(err, sql.ErrNoRows) {
		return "", shorten.Errorf(shorten.ENOTFOUND, "hash not found")
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// ScanHashes calls fn for every stored URL hash, oldest first.
func (s *LinkStore) ScanHashes(ctx context.Context, fn func(hash string) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT hash FROM reverse ORDER BY created_at, hash")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return err
		}
		if err := fn(hash); err != nil {
			return err
		}
	}
	return rows.Err()
}
