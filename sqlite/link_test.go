package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/relistan/shorten"
	"github.com/relistan/shorten/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:4000"

func TestLinkStore_InsertShortLink(t *testing.T) {
	t.Parallel()

	t.Run("reads back the original URL using the forward code", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewLinkStore(setupTestDB(t))
		ctx := context.Background()
		link, err := shorten.NewShortLink("https://relistan.com", testBaseURL)
		require.NoError(t, err)

		require.NoError(t, store.InsertShortLink(ctx, link))

		url, err := store.FindURLByCode(ctx, link.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, link.URL, url)
	})

	t.Run("reads back the short code using the reverse hash", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewLinkStore(setupTestDB(t))
		ctx := context.Background()
		link, err := shorten.NewShortLink("https://relistan.com", testBaseURL)
		require.NoError(t, err)

		require.NoError(t, store.InsertShortLink(ctx, link))

		code, err := store.FindCodeByHash(ctx, link.Hash)
		require.NoError(t, err)
		assert.Equal(t, link.ShortCode, code)
	})

	t.Run("replaces the reverse mapping for a repeated hash", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewLinkStore(setupTestDB(t))
		ctx := context.Background()
		first := shorten.NewShortLinkWithCode("https://relistan.com", testBaseURL, "AAAAAAAAAAAA")
		second := shorten.NewShortLinkWithCode("https://relistan.com", testBaseURL, "BBBBBBBBBBBB")

		require.NoError(t, store.InsertShortLink(ctx, first))
		require.NoError(t, store.InsertShortLink(ctx, second))

		code, err := store.FindCodeByHash(ctx, first.Hash)
		require.NoError(t, err)
		assert.Equal(t, "BBBBBBBBBBBB", code)

		// Both forward mappings remain resolvable.
		url, err := store.FindURLByCode(ctx, "AAAAAAAAAAAA")
		require.NoError(t, err)
		assert.Equal(t, "https://relistan.com", url)
	})

	t.Run("returns EINVALID for an incomplete link", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewLinkStore(setupTestDB(t))

		err := store.InsertShortLink(context.Background(), &shorten.ShortLink{URL: "https://relistan.com"})
		require.Error(t, err)
		assert.Equal(t, shorten.EINVALID, shorten.ErrorCode(err))
	})
}

func TestLinkStore_FindURLByCode(t *testing.T) {
	t.Parallel()

	store := sqlite.NewLinkStore(setupTestDB(t))

	_, err := store.FindURLByCode(context.Background(), "nonexistent0")
	require.Error(t, err)
	assert.Equal(t, shorten.ENOTFOUND, shorten.ErrorCode(err))
}

func TestLinkStore_FindCodeByHash(t *testing.T) {
	t.Parallel()

	store := sqlite.NewLinkStore(setupTestDB(t))

	_, err := store.FindCodeByHash(context.Background(), shorten.Hash("https://example.com"))
	require.Error(t, err)
	assert.Equal(t, shorten.ENOTFOUND, shorten.ErrorCode(err))
}

func TestLinkStore_ScanHashes(t *testing.T) {
	t.Parallel()

	t.Run("visits every stored hash", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewLinkStore(setupTestDB(t))
		ctx := context.Background()
		urls := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}
		want := make([]string, 0, len(urls))
		for _, u := range urls {
			link, err := shorten.NewShortLink(u, testBaseURL)
			require.NoError(t, err)
			require.NoError(t, store.InsertShortLink(ctx, link))
			want = append(want, link.Hash)
		}

		var got []string
		err := store.ScanHashes(ctx, func(hash string) error {
			got = append(got, hash)
			return nil
		})

		require.NoError(t, err)
		assert.ElementsMatch(t, want, got)
	})

	t.Run("stops at the first callback error", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewLinkStore(setupTestDB(t))
		ctx := context.Background()
		for _, u := range []string{"https://a.example.com", "https://b.example.com"} {
			link, err := shorten.NewShortLink(u, testBaseURL)
			require.NoError(t, err)
			require.NoError(t, store.InsertShortLink(ctx, link))
		}

		stop := errors.New("stop")
		calls := 0
		err := store.ScanHashes(ctx, func(string) error {
			calls++
			return stop
		})

		require.ErrorIs(t, err, stop)
		assert.Equal(t, 1, calls)
	})
}
