package mock

import "github.com/relistan/shorten"

var _ shorten.GrowableFilter = (*Filter)(nil)

// Filter is a mock implementation of shorten.GrowableFilter.
type Filter struct {
	PutFn          func(key string)
	MightContainFn func(key string) bool
	ResizeFn       func() bool
	StatsFn        func() shorten.FilterStats
}

func (f *Filter) Put(key string) {
	f.PutFn(key)
}

func (f *Filter) MightContain(key string) bool {
	return f.MightContainFn(key)
}

func (f *Filter) Resize() bool {
	return f.ResizeFn()
}

func (f *Filter) Stats() shorten.FilterStats {
	return f.StatsFn()
}
