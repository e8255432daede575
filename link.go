package shorten

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
)

// CodeLength is the number of characters in a short code.
const CodeLength = 12

// base62 maps random bytes onto short code characters.
const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	urlPattern  = regexp.MustCompile(`^(http|https)://.+$`)
	codePattern = regexp.MustCompile(`^[0-9A-Za-z]{12}$`)
)

// ShortLink represents the forward and reverse lookups for a shortened URL
// mapped to a random base62 code.
type ShortLink struct {
	ShortenedURL string `json:"shortened_url"`
	URL          string `json:"url"`
	ShortCode    string `json:"short_code"`
	Hash         string `json:"hash"`
}

// NewShortLink returns a link for url with a freshly generated short code.
func NewShortLink(url, baseURL string) (*ShortLink, error) {
	code, err := ShortCode()
	if err != nil {
		return nil, err
	}
	return NewShortLinkWithCode(url, baseURL, code), nil
}

// NewShortLinkWithCode returns a link for url using an existing short code.
func NewShortLinkWithCode(url, baseURL, code string) *ShortLink {
	return &ShortLink{
		ShortenedURL: URLFor(code, baseURL),
		URL:          url,
		ShortCode:    code,
		Hash:         Hash(url),
	}
}

// ShortCode generates a random CodeLength character base62 code.
func ShortCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = base62[int(b)%len(base62)]
	}
	return string(buf), nil
}

// Hash returns the hex encoded MD5 digest of url. It is the key stored in
// the reverse mapping and in the bloom filter.
func Hash(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// URLFor returns the public short URL for code.
func URLFor(code, baseURL string) string {
	return baseURL + "/" + code
}

// ValidateURL returns EINVALID unless rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	if !urlPattern.MatchString(rawURL) {
		return Errorf(EINVALID, "invalid URL supplied")
	}
	if _, err := url.Parse(rawURL); err != nil {
		return Errorf(EINVALID, "invalid URL supplied")
	}
	return nil
}

// ValidateCode returns EINVALID unless code is a well-formed short code.
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return Errorf(EINVALID, "invalid code supplied")
	}
	return nil
}

// LinkStore persists forward (code to URL) and reverse (hash to code)
// mappings. It is the authoritative source of truth.
type LinkStore interface {
	// InsertShortLink stores both mappings for link.
	InsertShortLink(ctx context.Context, link *ShortLink) error

	// FindURLByCode returns the URL stored for code.
	// Returns ENOTFOUND if no mapping exists.
	FindURLByCode(ctx context.Context, code string) (string, error)

	// FindCodeByHash returns the short code stored for a URL hash.
	// Returns ENOTFOUND if no mapping exists.
	FindCodeByHash(ctx context.Context, hash string) (string, error)
}

// HashScanner iterates every URL hash held in a store.
type HashScanner interface {
	// ScanHashes calls fn for each stored hash. Iteration stops at the
	// first error returned by fn.
	ScanHashes(ctx context.Context, fn func(hash string) error) error
}

// ShortenerService represents a service for shortening and resolving links.
type ShortenerService interface {
	// Shorten returns the link for url, reusing an existing code when the
	// URL has been shortened before. Returns EINVALID for malformed URLs.
	Shorten(ctx context.Context, url string) (*ShortLink, error)

	// Lookup returns the link stored for code.
	// Returns ENOTFOUND if code does not exist.
	Lookup(ctx context.Context, code string) (*ShortLink, error)

	// Resolve returns the target URL for code.
	// Returns ENOTFOUND if code does not exist.
	Resolve(ctx context.Context, code string) (string, error)
}
