package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"resume-ats/internal/bootstrap"
	"resume-ats/internal/extract"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/telemetry"
)

const app = "atsctl"

// Actual version can be specified in build command.
var version = "unknown"

var (
	appOnce sync.Once
	appInst *bootstrap.App
	appErr  error
)

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "atsctl parses job postings, scores resumes and inspects AI usage",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		telemetry.SetLevel(level)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

// loadApp builds the application graph once per process.
func loadApp() (*bootstrap.App, error) {
	appOnce.Do(func() {
		appInst, appErr = bootstrap.Build(config.Load())
	})
	return appInst, appErr
}

// readText returns the plain text of path, or of stdin when path is "-" or
// empty. PDF and DOCX files are extracted.
func readText(ctx context.Context, cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return extract.FromBytes(ctx, data, "", filepath.Base(path))
}
