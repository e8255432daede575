// Package shortener implements link shortening on top of a LinkStore,
// using a bloom filter to skip reverse lookups for URLs never seen before.
package shortener

import (
	"context"
	"fmt"

	"github.com/relistan/shorten"
)

// Compile-time interface verification.
var _ shorten.ShortenerService = (*Service)(nil)

// Service coordinates the filter and the store. The store is authoritative;
// the filter only decides whether a reverse lookup is worth making.
type Service struct {
	Store   shorten.LinkStore
	Filter  shorten.Filter
	BaseURL string
}

// Shorten returns the link for url. If the filter reports the URL's hash
// as possibly seen, the existing code is fetched from the store and reused.
// Otherwise a new code is generated, stored, and its hash put in the filter.
func (s *Service) Shorten(ctx context.Context, url string) (*shorten.ShortLink, error) {
	if err := shorten.ValidateURL(url); err != nil {
		return nil, err
	}

	hash := shorten.Hash(url)

	if s.Filter.MightContain(hash) {
		code, err := s.Store.FindCodeByHash(ctx, hash)
		switch {
		case err == nil:
			return shorten.NewShortLinkWithCode(url, s.BaseURL, code), nil
		case shorten.ErrorCode(err) != shorten.ENOTFOUND:
			return nil, fmt.Errorf("reverse lookup: %w", err)
		}
		// False positive or forgotten entry; fall through and create one.
	}

	link, err := shorten.NewShortLink(url, s.BaseURL)
	if err != nil {
		return nil, err
	}
	if err := s.Store.InsertShortLink(ctx, link); err != nil {
		return nil, fmt.Errorf("insert short link: %w", err)
	}
	s.Filter.Put(hash)

	return link, nil
}

// Lookup returns the link stored for code.
func (s *Service) Lookup(ctx context.Context, code string) (*shorten.ShortLink, error) {
	url, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	return shorten.NewShortLinkWithCode(url, s.BaseURL, code), nil
}

// Resolve returns the target URL for code.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if err := shorten.ValidateCode(code); err != nil {
		return "", err
	}
	return s.Store.FindURLByCode(ctx, code)
}

// warmCheckEvery is how many hashes Warm loads between growth checks.
const warmCheckEvery = 1024

// grower is implemented by filters that can grow while being warmed.
type grower interface {
	NeedsResize() bool
	Resize() bool
}

// Warm puts every hash held by scanner into the filter and returns how
// many were loaded. It lets a restarted process keep deduplicating URLs
// shortened before it started. Filters that can grow are grown as they
// fill, the same way the maintenance loop would.
func (s *Service) Warm(ctx context.Context, scanner shorten.HashScanner) (int, error) {
	g, _ := s.Filter.(grower)

	var n int
	err := scanner.ScanHashes(ctx, func(hash string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Filter.Put(hash)
		n++
		if g != nil && n%warmCheckEvery == 0 && g.NeedsResize() {
			g.Resize()
		}
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("warm filter: %w", err)
	}
	return n, nil
}
