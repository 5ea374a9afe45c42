package rulesource

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/sevigo/codelens/internal/cerr"
)

// GitCloner is the narrow slice of go-git's surface the rule-source manager
// needs, factored out so tests can substitute a fake instead of reaching
// the network, following the same collaborator-interface idiom as
// internal/collab.
type GitCloner interface {
	// RemoteHeadSHA resolves ref (a branch or tag name) on a remote
	// repository to its current commit hash, without cloning.
	RemoteHeadSHA(ctx context.Context, repoURL, ref string) (string, error)
	// CloneRef clones repoURL at ref into dest (which must not already
	// exist) and returns the resolved commit hash.
	CloneRef(ctx context.Context, repoURL, ref, dest string) (string, error)
}

// goGitCloner is the default GitCloner, built on go-git's Go API so no
// `git` binary is needed to fetch rule packs.
type goGitCloner struct{}

// NewGoGitCloner returns the default GitCloner implementation.
func NewGoGitCloner() GitCloner {
	return goGitCloner{}
}

func (goGitCloner) RemoteHeadSHA(ctx context.Context, repoURL, ref string) (string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://" + trimScheme(repoURL)},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return "", cerr.New(cerr.NetworkFailed, "rulesource.RemoteHeadSHA", err)
	}

	want := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(ref),
		plumbing.NewTagReferenceName(ref),
	}
	for _, r := range refs {
		for _, w := range want {
			if r.Name() == w {
				return r.Hash().String(), nil
			}
		}
	}
	return "", cerr.New(cerr.NetworkFailed, "rulesource.RemoteHeadSHA",
		fmt.Errorf("ref %q not found on %s", ref, repoURL))
}

func (goGitCloner) CloneRef(ctx context.Context, repoURL, ref, dest string) (string, error) {
	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           "https://" + trimScheme(repoURL),
		ReferenceName: plumbing.NewBranchReferenceName(ref),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return "", cerr.New(cerr.NetworkFailed, "rulesource.CloneRef", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", cerr.New(cerr.NetworkFailed, "rulesource.CloneRef", err)
	}
	return head.Hash().String(), nil
}

func trimScheme(repoURL string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if len(repoURL) > len(prefix) && repoURL[:len(prefix)] == prefix {
			return repoURL[len(prefix):]
		}
	}
	return repoURL
}
