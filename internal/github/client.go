// Package github fetches pull-request diffs from the GitHub API for the
// CLI's --pr review mode. It is a front-end collaborator: the engine never
// imports it, it only ever sees the diff text this package returns.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Client is the minimal GitHub surface the CLI needs.
type Client interface {
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewPATClient creates a client authenticated with a personal access
// token, the usual mode for a local CLI.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

// NewAppClient creates a client authenticated as a GitHub App
// installation, for CI-style setups where no user token exists.
func NewAppClient(appID, installationID int64, privateKeyPath string, logger *slog.Logger) (Client, error) {
	transport, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("github: failed to create app transport: %w", err)
	}
	return &gitHubClient{
		client: github.NewClient(&http.Client{Transport: transport}),
		logger: logger,
	}, nil
}

// GetPullRequestDiff retrieves the unified diff of a pull request.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return diff, nil
}
