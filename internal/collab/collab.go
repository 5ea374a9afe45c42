// Package collab declares the interfaces at the boundary between the core
// engine and the collaborators it never implements itself: the git front
// end, the LLM client, the work-item client, and the generic network
// fetcher used by the rule-source manager. The engine depends only on these
// interfaces. The default NetworkFetcher (net/http) lives in
// internal/rulesource; the os/exec GitRunner and LLM client live in cmd/cli.
package collab

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_collab.go -package=mocks github.com/sevigo/codelens/internal/collab GitRunner,LLMClient,WorkItemClient,NetworkFetcher

// GitRunner invokes the git binary. The core never calls it directly; it is
// the CLI front end's job to turn a working tree into diff text using a
// GitRunner and hand that text to the engine.
type GitRunner interface {
	Run(ctx context.Context, args ...string) (stdout, stderr string, exitCode int, err error)
}

// LLMClient completes a prompt. It is opaque to the core: the core only
// ever assembles prompts, it never calls Complete itself.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// WorkItemClient resolves work-item IDs to plain-text descriptions.
type WorkItemClient interface {
	Fetch(ctx context.Context, spaceID string, ids []string) ([]string, error)
}

// NetworkFetcher is the generic HTTP surface the rule-source manager uses
// to check for and download rule packs from raw/URL sources.
type NetworkFetcher interface {
	Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (status int, respHeaders map[string][]string, body []byte, err error)
	Head(ctx context.Context, url string) (respHeaders map[string][]string, err error)
}
