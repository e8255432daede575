package http_test

import (
	"sync"
	"sync/atomic"
	"testing"

	shortenhttp "github.com/relistan/shorten/http"
	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_Allow(t *testing.T) {
	t.Parallel()

	t.Run("allows burst then blocks", func(t *testing.T) {
		t.Parallel()

		limiter := shortenhttp.NewClientLimiter(0.001, 3)

		for range 3 {
			assert.True(t, limiter.Allow("10.0.0.1"))
		}
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		t.Parallel()

		limiter := shortenhttp.NewClientLimiter(0.001, 1)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("raises zero burst to one", func(t *testing.T) {
		t.Parallel()

		limiter := shortenhttp.NewClientLimiter(0.001, 0)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		limiter := shortenhttp.NewClientLimiter(0.001, 50)

		var allowed atomic.Int64
		var wg sync.WaitGroup
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("10.0.0.1") {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(50), allowed.Load())
	})
}
