package main

import (
	"fmt"
	"strconv"

	"github.com/relistan/shorten"
	"github.com/relistan/shorten/bloom"
)

// simSample is how many of the earliest keys are re-checked at the end.
const simSample = 1000

// Run executes the filter-sim command. It inserts synthetic keys into
// deps.Filter, running a maintenance check every c.Every keys, and reports
// each growth step and how many early keys the filter has forgotten.
func (c *FilterSimCmd) Run(deps *Dependencies) error {
	if c.Keys <= 0 || c.Every <= 0 {
		err := shorten.Errorf(shorten.EINVALID, "keys and every must be positive")
		fmt.Fprintf(deps.Stderr, "error: %s\n", shorten.ErrorMessage(err))
		return err
	}

	filter := deps.Filter
	maintainer := bloom.NewMaintainer(filter, filter.Config().ResizeInterval, deps.Logger)

	for i := range c.Keys {
		filter.Put(simKey(i))
		if (i+1)%c.Every != 0 {
			continue
		}
		before := filter.Stats().Evictions
		if maintainer.Check() {
			stats := filter.Stats()
			fmt.Fprintf(deps.Stdout, "after %d keys: grew to %d segments (capacity %d, evicted %t)\n",
				i+1, stats.Segments, stats.LastCapacity, stats.Evictions > before)
		}
	}

	stats := filter.Stats()
	fmt.Fprintf(deps.Stdout, "inserted %d keys: %d segments, last capacity %d, %d evictions, newest fpp %.4f\n",
		c.Keys, stats.Segments, stats.LastCapacity, stats.Evictions, stats.NewestFPP)

	sample := min(simSample, c.Keys)
	var forgotten int
	for i := range sample {
		if !filter.MightContain(simKey(i)) {
			forgotten++
		}
	}
	fmt.Fprintf(deps.Stdout, "%d of the first %d keys forgotten\n", forgotten, sample)
	return nil
}

func simKey(i int) string {
	return "sim-" + strconv.Itoa(i)
}
