package adapters

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// GitRefKind discriminates the three ways a Git dependency can pin a ref.
type GitRefKind int

const (
	GitRefBranch GitRefKind = iota
	GitRefTag
	GitRefCommit
)

// GitRef identifies what to check out after cloning.
type GitRef struct {
	Kind  GitRefKind
	Value string
}

// GitCloner materializes a Git repository at a ref into a local directory.
// Implemented with go-git/v5 so the core never shells out to a `git` binary.
type GitCloner interface {
	// CloneOrOpen clones url into dir if dir does not yet contain a
	// repository, then checks out ref and returns the resolved commit hash.
	// Shallow history (depth 1) is used for Branch/Tag refs; Commit refs
	// require full history since the target commit may not be a branch tip.
	CloneOrOpen(ctx context.Context, url, dir string, ref GitRef) (resolvedCommit string, err error)
}

// GoGitCloner is the production GitCloner, backed by go-git/v5.
type GoGitCloner struct{}

// NewGoGitCloner creates a go-git-backed cloner.
func NewGoGitCloner() *GoGitCloner {
	return &GoGitCloner{}
}

func (c *GoGitCloner) CloneOrOpen(ctx context.Context, url, dir string, ref GitRef) (string, error) {
	authMethod, err := ResolveAuth(ctx, url)
	if err != nil {
		return "", fmt.Errorf("resolve git auth: %w", err)
	}
	transportAuth, err := toTransportAuth(authMethod)
	if err != nil {
		return "", err
	}

	repo, openErr := git.PlainOpen(dir)
	if openErr != nil {
		opts := &git.CloneOptions{
			URL:  url,
			Auth: transportAuth,
		}
		if ref.Kind != GitRefCommit {
			opts.Depth = 1
			opts.ReferenceName = referenceNameFor(ref)
			opts.SingleBranch = true
		}
		repo, err = git.PlainCloneContext(ctx, dir, false, opts)
		if err != nil {
			return "", fmt.Errorf("clone %s: %w", url, err)
		}
	} else {
		err = repo.FetchContext(ctx, &git.FetchOptions{
			RemoteName: "origin",
			Auth:       transportAuth,
			Tags:       git.AllTags,
		})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return "", fmt.Errorf("fetch %s: %w", url, err)
		}
	}

	hash, err := checkout(repo, ref)
	if err != nil {
		return "", fmt.Errorf("checkout %s: %w", ref.Value, err)
	}
	return hash.String(), nil
}

func referenceNameFor(ref GitRef) plumbing.ReferenceName {
	switch ref.Kind {
	case GitRefTag:
		return plumbing.NewTagReferenceName(ref.Value)
	default:
		return plumbing.NewBranchReferenceName(ref.Value)
	}
}

func toTransportAuth(method AuthMethod) (transport.AuthMethod, error) {
	switch a := method.(type) {
	case NoAuth:
		return nil, nil
	case TokenAuth:
		return &http.BasicAuth{Username: "x-access-token", Password: a.Token}, nil
	case SSHAuth:
		keys, err := ssh.NewPublicKeysFromFile("git", a.PrivateKeyPath, "")
		if err != nil {
			return nil, fmt.Errorf("load ssh key %s: %w", a.PrivateKeyPath, err)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unknown auth method %T", method)
	}
}

// checkout resolves ref against repo and checks the worktree out at that
// commit, returning the resolved commit hash.
func checkout(repo *git.Repository, ref GitRef) (plumbing.Hash, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.Hash{}, err
	}

	var opts git.CheckoutOptions
	switch ref.Kind {
	case GitRefCommit:
		opts.Hash = plumbing.NewHash(ref.Value)
	case GitRefTag:
		tagRef, err := repo.Reference(plumbing.NewTagReferenceName(ref.Value), true)
		if err != nil {
			return plumbing.Hash{}, err
		}
		opts.Hash = tagRef.Hash()
	default: // GitRefBranch
		branchRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", ref.Value), true)
		if err != nil {
			return plumbing.Hash{}, err
		}
		opts.Hash = branchRef.Hash()
	}

	if err := wt.Checkout(&opts); err != nil {
		return plumbing.Hash{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return plumbing.Hash{}, err
	}
	return head.Hash(), nil
}
