package mock

import (
	"context"

	"github.com/relistan/shorten"
)

var _ shorten.LinkStore = (*LinkStore)(nil)

// LinkStore is a mock implementation of shorten.LinkStore.
type LinkStore struct {
	InsertShortLinkFn func(ctx context.Context, link *shorten.ShortLink) error
	FindURLByCodeFn   func(ctx context.Context, code string) (string, error)
	FindCodeByHashFn  func(ctx context.Context, hash string) (string, error)
}

func (s *LinkStore) InsertShortLink(ctx context.Context, link *shorten.ShortLink) error {
	return s.InsertShortLinkFn(ctx, link)
}

func (s *LinkStore) FindURLByCode(ctx context.Context, code string) (string, error) {
	return s.FindURLByCodeFn(ctx, code)
}

func (s *LinkStore) FindCodeByHash(ctx context.Context, hash string) (string, error) {
	return s.FindCodeByHashFn(ctx, hash)
}

var _ shorten.HashScanner = (*HashScanner)(nil)

// HashScanner is a mock implementation of shorten.HashScanner.
type HashScanner struct {
	ScanHashesFn func(ctx context.Context, fn func(hash string) error) error
}

func (s *HashScanner) ScanHashes(ctx context.Context, fn func(hash string) error) error {
	return s.ScanHashesFn(ctx, fn)
}

var _ shorten.ShortenerService = (*ShortenerService)(nil)

// ShortenerService is a mock implementation of shorten.ShortenerService.
type ShortenerService struct {
	ShortenFn func(ctx context.Context, url string) (*shorten.ShortLink, error)
	LookupFn  func(ctx context.Context, code string) (*shorten.ShortLink, error)
	ResolveFn func(ctx context.Context, code string) (string, error)
}

func (s *ShortenerService) Shorten(ctx context.Context, url string) (*shorten.ShortLink, error) {
	return s.ShortenFn(ctx, url)
}

func (s *ShortenerService) Lookup(ctx context.Context, code string) (*shorten.ShortLink, error) {
	return s.LookupFn(ctx, code)
}

func (s *ShortenerService) Resolve(ctx context.Context, code string) (string, error) {
	return s.ResolveFn(ctx, code)
}
