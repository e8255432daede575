// Package shorten provides a URL shortener that avoids redundant writes to
// its backing store with an expanding bloom filter.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bloom/, http/).
package shorten
