package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/internal/document"
)

type repoBinding struct{}

// New creates the git repository binding.
func New() binding.Binding {
	return &repoBinding{}
}

var (
	_ binding.Reader  = (*repoBinding)(nil)
	_ binding.Applier = (*repoBinding)(nil)
)

func (b *repoBinding) BindingMetadata() binding.Metadata {
	return binding.Metadata{
		Type:        "ConfMgr.Git/Repository",
		Version:     "0.1.0",
		Description: "Manages local git repository clones.",
	}
}

func repoPath(input document.Document) (string, error) {
	value, ok := input["path"].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("property 'path' is required and must be a non-empty string")
	}
	return value, nil
}

// Read opens the repository at the configured path and reports its origin
// URL and current branch. A missing or non-repository path is non-existence,
// not a failure.
func (b *repoBinding) Read(ctx context.Context, input document.Document) (document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := repoPath(input)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return document.Document{"path": path, document.ExistKey: false}, nil
		}
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	state := document.Document{"path": path, document.ExistKey: true}

	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		state["url"] = remote.Config().URLs[0]
	}
	if head, err := repo.Head(); err == nil {
		state["branch"] = head.Name().Short()
	}

	return state, nil
}

// Apply clones the repository when it should exist and does not, and removes
// the working tree when it should not exist. An already-converged path runs
// no git operations.
func (b *repoBinding) Apply(ctx context.Context, input document.Document) (document.Document, []string, error) {
	path, err := repoPath(input)
	if err != nil {
		return nil, nil, err
	}

	pre, err := b.Read(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	preExist, _ := pre.Exist()

	wantExist, present := input.Exist()
	if !present {
		wantExist = true
	}

	changed := []string{}

	switch {
	case wantExist && preExist:
		return pre, changed, nil

	case wantExist:
		url, ok := input["url"].(string)
		if !ok || strings.TrimSpace(url) == "" {
			return nil, nil, fmt.Errorf("property 'url' is required to clone a repository")
		}

		opts := &git.CloneOptions{URL: url}
		if branch, ok := input["branch"].(string); ok && branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
			opts.SingleBranch = true
		}
		if _, err := git.PlainCloneContext(ctx, path, false, opts); err != nil {
			return nil, nil, fmt.Errorf("clone %s into %s: %w", url, path, err)
		}
		changed = append(changed, document.ExistKey)

	case preExist:
		if err := os.RemoveAll(path); err != nil {
			return nil, nil, fmt.Errorf("remove repository at %s: %w", path, err)
		}
		changed = append(changed, document.ExistKey)

	default:
		return pre, changed, nil
	}

	post, err := b.Read(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	return post, changed, nil
}
