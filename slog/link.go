// Package slog provides log/slog decorators for shorten services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/relistan/shorten"
)

// Ensure LoggingLinkStore implements shorten.LinkStore and shorten.HashScanner.
var (
	_ shorten.LinkStore   = (*LoggingLinkStore)(nil)
	_ shorten.HashScanner = (*LoggingLinkStore)(nil)
)

// LoggingLinkStore wraps a LinkStore with debug logging.
type LoggingLinkStore struct {
	next   shorten.LinkStore
	logger *slog.Logger
}

// NewLoggingLinkStore creates a new LoggingLinkStore.
func NewLoggingLinkStore(next shorten.LinkStore, logger *slog.Logger) *LoggingLinkStore {
	return &LoggingLinkStore{next: next, logger: logger}
}

// InsertShortLink delegates to the wrapped store and logs the operation.
func (s *LoggingLinkStore) InsertShortLink(ctx context.Context, link *shorten.ShortLink) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("insert short link",
			"code", link.ShortCode,
			"hash", link.Hash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.InsertShortLink(ctx, link)
}

// FindURLByCode delegates to the wrapped store and logs the operation.
func (s *LoggingLinkStore) FindURLByCode(ctx context.Context, code string) (url string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find url by code",
			"code", code,
			"found", err == nil,
			"duration", time.Since(begin),
			"err", errUnlessNotFound(err),
		)
	}(time.Now())
	return s.next.FindURLByCode(ctx, code)
}

// FindCodeByHash delegates to the wrapped store and logs the operation.
func (s *LoggingLinkStore) FindCodeByHash(ctx context.Context, hash string) (code string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find code by hash",
			"hash", hash,
			"found", err == nil,
			"duration", time.Since(begin),
			"err", errUnlessNotFound(err),
		)
	}(time.Now())
	return s.next.FindCodeByHash(ctx, hash)
}

// ScanHashes delegates to the wrapped store if it supports scanning.
// Returns EINTERNAL otherwise.
func (s *LoggingLinkStore) ScanHashes(ctx context.Context, fn func(hash string) error) (err error) {
	scanner, ok := s.next.(shorten.HashScanner)
	if !ok {
		return shorten.Errorf(shorten.EINTERNAL, "link store does not support hash scanning")
	}

	var count int
	defer func(begin time.Time) {
		s.logger.Info("scan hashes",
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return scanner.ScanHashes(ctx, func(hash string) error {
		count++
		return fn(hash)
	})
}

// errUnlessNotFound drops ENOTFOUND, which is an expected lookup outcome.
func errUnlessNotFound(err error) error {
	if shorten.ErrorCode(err) == shorten.ENOTFOUND {
		return nil
	}
	return err
}
