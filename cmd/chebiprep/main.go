// Package main provides the chebiprep binary entry point.
// Chebiprep turns parsed ChEBI ontology terms and molecule records into
// labeled, stratified train/validation/test datasets.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"log/slog"

	"github.com/spf13/cobra"
)

const (
	// Version is the chebiprep release version.
	Version = "0.1.0"
	// BuildTime is stamped by the build.
	BuildTime = "dev"

	appName = "chebiprep"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "ChEBI dataset preparation pipeline",
		Long: `Chebiprep prepares machine-learning-ready datasets from the ChEBI
chemical ontology.

It builds a directed graph of ontology classes, propagates class
membership through the is_a hierarchy to produce multi-label training
targets, and partitions the labeled table into stratified
train/validation/test subsets.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(buildCmd(&configPath))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
