package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/spf13/cobra"
)

var (
	analyzeResumeFile string
	analyzeJobFile    string
	analyzeJobText    string
	analyzeJobURL     string
	analyzeOutputFile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long:  "Asks the model how well the resume matches the job and writes the MatchResult JSON.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to resume JSON file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job description text file")
	analyzeCmd.Flags().StringVar(&analyzeJobText, "job-text", "", "Job description text (instead of --job)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "Fetch the job description from a posting URL")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output MatchResult JSON file (default stdout)")

	if err := analyzeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, os.Getenv)
	if err != nil {
		return err
	}
	doc, err := readResumeFile(analyzeResumeFile)
	if err != nil {
		return err
	}
	jobIn := jobInput{file: analyzeJobFile, text: analyzeJobText, url: analyzeJobURL}
	jd, err := jobIn.local()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, 5*time.Minute)
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

	result := rt.analyzer.Analyze(ctx, doc, jd)
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintMatchResult(result)
	}
	if err := writeJSON(analyzeOutputFile, result); err != nil {
		return err
	}
	if analysis.IsErrorResult(result) {
		return fmt.Errorf("analysis failed: %s", result.MissingSkills[0])
	}
	return nil
}
