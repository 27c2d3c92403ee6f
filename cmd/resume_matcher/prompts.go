package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/spf13/cobra"
)

var promptSetFile string

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List, show, edit and reset the editable prompts",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List editable prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listPrompts(os.Stdout)
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the effective template of a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsShow,
}

var promptsSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Store a custom template for a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsSet,
}

var promptsResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Restore a prompt to its built-in template",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsReset,
}

func init() {
	promptsSetCmd.Flags().StringVarP(&promptSetFile, "file", "f", "", "Path to the template text (required)")
	if err := promptsSetCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	promptsCmd.AddCommand(promptsListCmd, promptsShowCmd, promptsSetCmd, promptsResetCmd)
	rootCmd.AddCommand(promptsCmd)
}

// listPrompts prints the built-in prompt catalogue
func listPrompts(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, def := range prompts.Defaults() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", def.ID, def.Name, def.Description)
	}
	return tw.Flush()
}

// promptRecord pairs a definition with its built-in content
func promptRecord(id string) (db.PromptRecord, error) {
	def, ok := prompts.Lookup(id)
	if !ok {
		return db.PromptRecord{}, fmt.Errorf("unknown prompt %q (see 'prompts list')", id)
	}
	content, err := def.Content()
	if err != nil {
		return db.PromptRecord{}, err
	}
	return db.PromptRecord{ID: def.ID, Name: def.Name, Description: def.Description, DefaultContent: content}, nil
}

// withPromptDB connects to the configured database for prompt commands
func withPromptDB(cmd *cobra.Command, fn func(ctx context.Context, database *db.DB) error) error {
	cfg, err := loadSettings(cmd, os.Getenv)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or database_url in the config file is required")
	}

	ctx, cancel := commandContext(cmd, time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(ctx, database)
}

func runPromptsShow(cmd *cobra.Command, args []string) error {
	if _, err := promptRecord(args[0]); err != nil {
		return err
	}

	cfg, err := loadSettings(cmd, os.Getenv)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, time.Minute)
	defer cancel()

	// Without a database the built-in template is the effective one
	var store prompts.OverrideStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		store = database
	}

	content, err := prompts.NewResolver(store).Template(ctx, args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, content)
	return nil
}

func runPromptsSet(cmd *cobra.Command, args []string) error {
	def, err := promptRecord(args[0])
	if err != nil {
		return err
	}
	content, err := os.ReadFile(promptSetFile)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	return withPromptDB(cmd, func(ctx context.Context, database *db.DB) error {
		if _, err := database.UpsertPrompt(ctx, def, string(content)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Prompt %s updated\n", def.ID)
		return nil
	})
}

func runPromptsReset(cmd *cobra.Command, args []string) error {
	def, err := promptRecord(args[0])
	if err != nil {
		return err
	}

	return withPromptDB(cmd, func(ctx context.Context, database *db.DB) error {
		if _, err := database.ResetPrompt(ctx, def); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Prompt %s reset to default\n", def.ID)
		return nil
	})
}
