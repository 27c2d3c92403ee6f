// Package main provides the resume_matcher CLI: match analysis, AI resume improvement and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	verbose      bool
	flagProvider string
	flagAPIKey   string
	flagModel    string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "resume_matcher",
	Short: "Score resumes against job descriptions and rewrite them with an LLM",
	Long: `resume_matcher analyzes how well a resume fits a job description and rewrites the
sections that matter most for the role.

Configuration can be loaded from a JSON or YAML file using --config. Environment variables
override the file and command-line flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print match results and improvement reports")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: gemini, anthropic or openrouter")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key for the provider (overrides the *_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Use this model for every tier")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
