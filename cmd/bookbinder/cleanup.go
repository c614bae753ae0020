package main

import (
	"io"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opd-ai/bookbinder/bookbinder"
)

func cleanupCmd() *cobra.Command {
	var outputDir string
	var rootDir string
	var confirm bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete the output directory (dry run unless --confirm)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := outputDir
			if dir == "" {
				root, err := resolveRoot(rootDir)
				if err != nil {
					return err
				}
				dir = bookbinder.DefaultOutputDir(root)
			} else {
				dir, _ = filepath.Abs(dir)
			}

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			if quiet {
				logger = log.New(io.Discard, "", 0)
			}

			_, err := bookbinder.CleanupOutput(dir, !confirm, logger)
			return err
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory to clean (default: <root>/bookbinder-output)")
	cmd.Flags().StringVar(&rootDir, "root", "", "project root directory (default: current directory)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "actually delete instead of listing")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output")
	return cmd
}
