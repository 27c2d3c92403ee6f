package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/spf13/cobra"
)

var (
	improveResumeFile string
	improveJobFile    string
	improveJobText    string
	improveJobURL     string
	improveMatchFile  string
	improveOutputFile string
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Rewrite the resume sections that matter for a job",
	Long: `Selects the sections worth improving, rewrites them in parallel and merges the results.
Without --match the resume is analyzed first. Failed sections keep their original text.`,
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().StringVarP(&improveResumeFile, "resume", "r", "", "Path to resume JSON file (required)")
	improveCmd.Flags().StringVarP(&improveJobFile, "job", "j", "", "Path to job description text file")
	improveCmd.Flags().StringVar(&improveJobText, "job-text", "", "Job description text (instead of --job)")
	improveCmd.Flags().StringVar(&improveJobURL, "job-url", "", "Fetch the job description from a posting URL")
	improveCmd.Flags().StringVarP(&improveMatchFile, "match", "m", "", "Path to MatchResult JSON from a previous analyze run")
	improveCmd.Flags().StringVarP(&improveOutputFile, "out", "o", "", "Path to output resume JSON file (default stdout)")

	if err := improveCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(improveCmd)
}

// readMatchFile loads a MatchResult validated against its schema
func readMatchFile(path string) (*types.MatchResult, error) {
	if err := schemas.ValidateFile(schemas.MatchResult, path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match file: %w", err)
	}
	var match types.MatchResult
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match JSON: %w", err)
	}
	return &match, nil
}

func runImprove(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, os.Getenv)
	if err != nil {
		return err
	}
	doc, err := readResumeFile(improveResumeFile)
	if err != nil {
		return err
	}
	jobIn := jobInput{file: improveJobFile, text: improveJobText, url: improveJobURL}
	jd, err := jobIn.local()
	if err != nil {
		return err
	}
	var match *types.MatchResult
	if improveMatchFile != "" {
		if match, err = readMatchFile(improveMatchFile); err != nil {
			return err
		}
	}

	ctx, cancel := commandContext(cmd, 10*time.Minute)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if jd == "" {
		if jd, err = jobIn.fetch(ctx, rt.jobs); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stderr)
	if match == nil {
		match = rt.analyzer.Analyze(ctx, doc, jd)
		if cfg.Verbose {
			printer.PrintMatchResult(match)
		}
	}

	improved, report := rt.pipeline.ImproveWithReport(ctx, doc, jd, match)
	if cfg.Verbose {
		printer.PrintReport(report)
	}
	return writeJSON(improveOutputFile, improved)
}
