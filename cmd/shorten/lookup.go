package main

import (
	"fmt"

	"github.com/relistan/shorten"
)

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	link, err := deps.Shortener.Lookup(deps.Ctx, c.Code)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shorten.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, link.URL)
	return nil
}
