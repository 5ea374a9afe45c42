package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/github"
	"github.com/sevigo/codelens/internal/prompt"
	"github.com/sevigo/codelens/internal/scan"
)

var (
	reviewPR        string
	reviewStaged    bool
	reviewRange     string
	reviewWorkItems []string
	reviewFailOn    string
	reviewMaxFinds  int
	reviewUseLLM    bool
)

const reviewSystemPrompt = `You are a senior code reviewer. Review the change below using the
structural summary and static findings as context. Be specific and concise;
point at files and lines.`

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Analyse a change and produce a structured review",
	Long: `Review analyses a diff (working tree, staged, a commit range, or a GitHub
pull request), scans the touched files against the installed rule packs,
and prints the structural summary and findings. With an [llm] command
configured, the assembled context bundle is sent to it and the response is
printed as the review.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewPR, "pr", "", "review a GitHub pull request (owner/repo#number) instead of the local tree")
	reviewCmd.Flags().BoolVar(&reviewStaged, "staged", false, "review staged changes only")
	reviewCmd.Flags().StringVar(&reviewRange, "range", "", "review a commit range (e.g. main...HEAD)")
	reviewCmd.Flags().StringArrayVar(&reviewWorkItems, "work-item", nil, "work-item description to include in the bundle (repeatable)")
	reviewCmd.Flags().StringVar(&reviewFailOn, "fail-on", "", "exit 1 when findings at or above this severity exist")
	reviewCmd.Flags().IntVar(&reviewMaxFinds, "max-findings", 50, "findings budget for the prompt bundle")
	reviewCmd.Flags().BoolVar(&reviewUseLLM, "llm", true, "send the bundle to the configured [llm] command, if any")
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	diffText, err := reviewDiffText(cmd, app)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diffText) == "" {
		fmt.Println("Nothing to review.")
		return nil
	}

	diff, sum, err := app.engine.AnalyzeDiff(ctx, ".", []byte(diffText))
	if err != nil {
		return err
	}
	ds := diff.Stats()
	fmt.Printf("%d files changed, %d insertions(+), %d deletions(-)\n\n",
		ds.FilesChanged, ds.Insertions, ds.Deletions)
	printSummary(sum)

	result, err := scanChangedFiles(cmd, app, diff)
	if err != nil {
		return err
	}
	if result != nil {
		printFindings(result)
	}

	if reviewUseLLM {
		if client, ok := newLLMClient(app.cfg.LLM); ok {
			in := prompt.Inputs{
				WorkItems:   reviewWorkItems,
				DiffText:    diffText,
				Summary:     sum,
				MaxFindings: reviewMaxFinds,
			}
			if result != nil {
				in.Findings = result.Findings
			}
			bundle, err := app.engine.AssemblePrompt(ctx, in)
			if err != nil {
				return err
			}
			review, err := client.Complete(ctx, reviewSystemPrompt, bundle)
			if err != nil {
				return err
			}
			titleColor.Println("Review")
			fmt.Println(review)
		}
	}

	if result != nil {
		return checkThreshold(result, reviewFailOn)
	}
	return nil
}

func reviewDiffText(cmd *cobra.Command, app *cliApp) (string, error) {
	ctx := cmd.Context()

	if reviewPR != "" {
		ref, err := github.ParsePRRef(reviewPR)
		if err != nil {
			return "", err
		}
		client, err := newGitHubClient(cmd, app)
		if err != nil {
			return "", err
		}
		return client.GetPullRequestDiff(ctx, ref.Owner, ref.Repo, ref.Number)
	}
	return app.git.diff(ctx, reviewStaged, reviewRange)
}

func newGitHubClient(cmd *cobra.Command, app *cliApp) (github.Client, error) {
	gh := app.cfg.GitHub
	if gh.Token != "" {
		return github.NewPATClient(cmd.Context(), gh.Token, app.logger), nil
	}
	if gh.AppID != 0 && gh.InstallationID != 0 && gh.PrivateKeyPath != "" {
		return github.NewAppClient(gh.AppID, gh.InstallationID, gh.PrivateKeyPath, app.logger)
	}
	return nil, fmt.Errorf("%w: --pr requires github.token or a github app configuration", errUsage)
}

// scanChangedFiles scans the post-image files the diff touches. A nil
// result (with no error) means there was nothing scannable, e.g. a
// deletion-only diff or no rules installed yet.
func scanChangedFiles(cmd *cobra.Command, app *cliApp, diff *diffmodel.GitDiff) (*scan.Result, error) {
	var files []string
	for _, cf := range diff.Files {
		if cf.ChangeKind == diffmodel.Deleted || cf.Binary {
			continue
		}
		if _, err := os.Stat(cf.Path); err != nil {
			continue
		}
		files = append(files, cf.Path)
	}
	if len(files) == 0 {
		return nil, nil
	}

	result, err := app.engine.ScanFiles(cmd.Context(), files, scan.Config{
		MaxIssues:   app.cfg.Scan.MaxIssues,
		Parallelism: app.cfg.Scan.Parallelism,
	})
	if err != nil {
		// A missing rule catalog degrades the review, it does not block it.
		app.logger.Warn("scan skipped", "error", err)
		return nil, nil
	}
	return result, nil
}
