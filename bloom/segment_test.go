package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/relistan/shorten"
	"github.com/relistan/shorten/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateParameters(t *testing.T) {
	t.Parallel()

	t.Run("sizes for one percent", func(t *testing.T) {
		t.Parallel()

		m, k := bloom.EstimateParameters(1000, 0.01)

		assert.Equal(t, uint64(9586), m)
		assert.Equal(t, uint32(7), k)
	})

	t.Run("clamps k to at least one", func(t *testing.T) {
		t.Parallel()

		_, k := bloom.EstimateParameters(1000, 0.9)

		assert.Equal(t, uint32(1), k)
	})
}

func TestNewSegment(t *testing.T) {
	t.Parallel()

	t.Run("derives dimensions from capacity and fpp", func(t *testing.T) {
		t.Parallel()

		seg, err := bloom.NewSegment(5, 0.01)
		require.NoError(t, err)

		assert.Equal(t, uint64(48), seg.M())
		assert.Equal(t, uint32(7), seg.K())
		assert.Equal(t, uint64(5), seg.Capacity())
		assert.InDelta(t, 0.01, seg.TargetFPP(), 1e-12)
		assert.Zero(t, seg.Count())
		assert.Zero(t, seg.EstimatedFPP())
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		t.Parallel()

		_, err := bloom.NewSegment(0, 0.01)
		require.Error(t, err)
		assert.Equal(t, shorten.EINVALID, shorten.ErrorCode(err))
	})

	t.Run("rejects out of range fpp", func(t *testing.T) {
		t.Parallel()

		for _, p := range []float64{0, 1, -0.5, 1.5} {
			_, err := bloom.NewSegment(100, p)
			require.Error(t, err, "fpp %v", p)
			assert.Equal(t, shorten.EINVALID, shorten.ErrorCode(err))
		}
	})
}

func TestSegment_AddAndTest(t *testing.T) {
	t.Parallel()

	seg, err := bloom.NewSegment(1000, 0.01)
	require.NoError(t, err)

	assert.False(t, seg.Test("d41d8cd98f00b204e9800998ecf8427e"))

	seg.Add("d41d8cd98f00b204e9800998ecf8427e")

	assert.True(t, seg.Test("d41d8cd98f00b204e9800998ecf8427e"))
	assert.Equal(t, uint64(1), seg.Count())
}

func TestSegment_NoFalseNegatives(t *testing.T) {
	t.Parallel()

	seg, err := bloom.NewSegment(5000, 0.01)
	require.NoError(t, err)

	// Fill well past capacity; membership of added keys must still hold.
	for i := range 20000 {
		seg.Add(fmt.Sprintf("key-%d", i))
	}
	for i := range 20000 {
		require.True(t, seg.Test(fmt.Sprintf("key-%d", i)), "key-%d", i)
	}
}

func TestSegment_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	seg, err := bloom.NewSegment(numItems, fpRate)
	require.NoError(t, err)

	for i := range numItems {
		seg.Add(shorten.Hash(fmt.Sprintf("https://example.com/added/%d", i)))
	}

	falsePositives := 0
	for i := range testProbes {
		if seg.Test(shorten.Hash(fmt.Sprintf("https://example.com/notadded/%d", i))) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)

	// At capacity the estimate sits close to the target.
	assert.InDelta(t, fpRate, seg.EstimatedFPP(), 0.002)
}

func TestSegment_EstimatedFPPIsMonotonic(t *testing.T) {
	t.Parallel()

	seg, err := bloom.NewSegment(100, 0.01)
	require.NoError(t, err)

	prev := seg.EstimatedFPP()
	for i := range 500 {
		seg.Add(fmt.Sprintf("key-%d", i))
		cur := seg.EstimatedFPP()
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Greater(t, prev, 0.1)
}

func TestSegment_ConcurrentAddAndTest(t *testing.T) {
	t.Parallel()

	seg, err := bloom.NewSegment(10000, 0.01)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				key := fmt.Sprintf("w%d-%d", w, i)
				seg.Add(key)
				if !seg.Test(key) {
					t.Errorf("missing %s after add", key)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8000), seg.Count())
}
