// Package main provides the offline resume export CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resume",
		Short:         "Resume export tools",
		Long:          "Render the resume to PDF, LaTeX or JSON from a record file or the configured datastore.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExportCmd())
	return root
}

func main() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
