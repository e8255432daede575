package main

import (
	"fmt"

	"github.com/relistan/shorten"
)

// Run executes the shorten command.
func (c *ShortenCmd) Run(deps *Dependencies) error {
	link, err := deps.Shortener.Shorten(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shorten.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, link.ShortenedURL)
	return nil
}
