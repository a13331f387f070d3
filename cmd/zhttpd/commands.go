package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the zhttpd CLI. The core engine (internal/...)
// never imports cobra or reads os.Args itself; only this outer command
// layer does, per SPEC_FULL.md §4.L.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zhttpd",
		Short: "zhttpd is a single-host HTTP/1.1 origin server with CGI dispatch",
		Long: `zhttpd serves static files from a document root and delegates
requests for CGI-dispatched extensions to an interpreter process.

	$ zhttpd run --config zhttpd.toml`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCommand())
	return root
}
