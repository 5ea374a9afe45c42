package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/codelens/internal/prompt"
)

var (
	commitAll    bool
	commitDryRun bool
)

const commitSystemPrompt = `Write a conventional git commit message for the change below. First line
at most 72 characters, imperative mood, no trailing period. Add a short
body only when the summary alone would lose important context. Respond
with the message text only.`

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for the staged changes and commit",
	Long: `Commit analyses the staged diff, assembles a context bundle, asks the
configured [llm] command for a commit message, and runs git commit with
it. With --dry-run the message is printed instead of committed.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "stage all changes before committing")
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false, "print the generated message without committing")
}

func runCommit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	client, ok := newLLMClient(app.cfg.LLM)
	if !ok {
		return fmt.Errorf("%w: commit requires an [llm] command in the configuration", errUsage)
	}

	if commitAll {
		if err := app.git.stageAll(ctx); err != nil {
			return err
		}
	}

	diffText, err := app.git.diff(ctx, true, "")
	if err != nil {
		return err
	}
	if strings.TrimSpace(diffText) == "" {
		fmt.Println("Nothing staged to commit.")
		return nil
	}

	_, sum, err := app.engine.AnalyzeDiff(ctx, ".", []byte(diffText))
	if err != nil {
		return err
	}

	bundle, err := app.engine.AssemblePrompt(ctx, prompt.Inputs{
		DiffText: diffText,
		Summary:  sum,
	})
	if err != nil {
		return err
	}

	message, err := client.Complete(ctx, commitSystemPrompt, bundle)
	if err != nil {
		return err
	}
	message = stripCodeFences(message)
	if message == "" {
		return fmt.Errorf("llm command returned an empty commit message")
	}

	if commitDryRun {
		titleColor.Println("Commit message")
		fmt.Println(message)
		return nil
	}

	if err := app.git.commit(ctx, message); err != nil {
		return err
	}
	successColor.Println("Committed.")
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, which models
// add to commit messages more often than not.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
