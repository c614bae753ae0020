package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "bookbinder",
		Short: "Build bookmarked PDF books from markdown and PDF sources",
	}

	root.AddCommand(buildCmd())
	root.AddCommand(cleanupCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
