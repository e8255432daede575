package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/relistan/shorten"
	"github.com/relistan/shorten/bloom"
	main "github.com/relistan/shorten/cmd/shorten"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSimCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports growth and eviction", func(t *testing.T) {
		t.Parallel()

		filter, err := bloom.NewFilter(bloom.Config{
			BaseSize:       100,
			ResizeInterval: 1,
			MaxLength:      2,
			TargetFPP:      0.01,
			TriggerFPP:     0.1,
		})
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Filter: filter,
		}

		cmd := &main.FilterSimCmd{Keys: 2000, Every: 50}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "grew to 2 segments")
		assert.Contains(t, output, "evicted true")
		assert.Contains(t, output, "inserted 2000 keys: 2 segments")
		assert.Contains(t, output, "of the first 1000 keys forgotten")
		assert.Positive(t, filter.Stats().Evictions)
	})

	t.Run("rejects non-positive counts", func(t *testing.T) {
		t.Parallel()

		filter, err := bloom.NewFilter(bloom.DefaultConfig())
		require.NoError(t, err)

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Filter: filter,
		}

		err = (&main.FilterSimCmd{Keys: 0, Every: 10}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, shorten.EINVALID, shorten.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("runs through Main without a database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := main.NewMain()
		m.DBPath = filepath.Join(dir, "missing", "nested", "test.db")

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{
			"--filter-base-size=100",
			"filter-sim", "-n", "500", "--every=50",
		}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "inserted 500 keys")
		assert.Nil(t, m.DB)
	})
}
