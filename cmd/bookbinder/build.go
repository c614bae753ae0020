package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opd-ai/bookbinder/bookbinder"
)

func buildCmd() *cobra.Command {
	var orderPath string
	var rootDir string
	var outputDir string
	var outputName string
	var configPath string
	var force bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the book described by an order manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(rootDir)
			if err != nil {
				return err
			}
			order := resolveAgainst(orderPath, root)
			config := ""
			if configPath != "" {
				config = resolveAgainst(configPath, root)
			}
			out := outputDir
			if out == "" {
				out = bookbinder.DefaultOutputDir(root)
			} else {
				out, _ = filepath.Abs(out)
			}

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			if quiet {
				logger = log.New(io.Discard, "", 0)
			}

			manifest, err := bookbinder.LoadOrder(order, root)
			if err != nil {
				return err
			}
			if outputName != "" {
				manifest.OutputFilename = outputName
			}

			settings, err := bookbinder.ResolveSettings(config, manifest.PageSettings)
			if err != nil {
				return err
			}

			cache := bookbinder.OpenCache(out)
			renderer := &bookbinder.Renderer{
				Settings:  settings,
				BookTitle: manifest.BookTitle,
				RootDir:   root,
				OutputDir: out,
			}
			assembler := bookbinder.NewAssembler(settings, root, out, cache, renderer, force, logger)

			outPath, err := assembler.Build(manifest)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderPath, "order", "", "path to the order manifest JSON (required)")
	cmd.Flags().StringVar(&rootDir, "root", "", "project root directory (default: current directory)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for converted PDFs and the finished book (default: <root>/bookbinder-output)")
	cmd.Flags().StringVar(&outputName, "output", "", "output filename, overriding the manifest")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a config JSON overriding built-in defaults")
	cmd.Flags().BoolVar(&force, "force", false, "reconvert every markdown file, ignoring the cache")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output")
	cmd.MarkFlagRequired("order")
	return cmd
}

func resolveRoot(rootDir string) (string, error) {
	if rootDir == "" {
		return os.Getwd()
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("root directory does not exist: %s", root)
	}
	return root, nil
}

// resolveAgainst makes a path absolute, trying the working directory first
// and falling back to the project root.
func resolveAgainst(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		abs, _ := filepath.Abs(path)
		return abs
	}
	return filepath.Join(root, path)
}
