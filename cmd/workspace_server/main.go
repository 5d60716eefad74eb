// Package main provides the entry point for the AI workspace gateway server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workspace_server",
	Short: "AI Workspace Gateway Server",
	Long:  "AI Workspace Gateway routes chat, content generation, data analysis and material search requests to the user's configured AI vendors via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
