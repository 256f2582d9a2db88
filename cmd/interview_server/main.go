// Package main provides the entry point for the mock-interview HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_server",
	Short: "AI Mock Interview HTTP API Server",
	Long:  "Mock Interview runs AI-assisted practice interviews: resume analysis, per-answer feedback and final scoring via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
