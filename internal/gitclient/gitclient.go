// Package gitclient reads individual files from a remote git repository
// without checking out a worktree. issuedash uses it to fetch README files
// from an entity's source repository.
package gitclient

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Auth holds Basic Auth credentials.
// For Bitbucket Cloud access tokens, use "x-token-auth" as Username
// and the token as Password.
type Auth struct {
	Username string
	Password string // or Token
}

// Client holds a bare clone of a repository in memory.
type Client struct {
	repo *git.Repository
}

// New clones the repository at url into memory, without inflating a worktree.
func New(url string, auth *Auth) (*Client, error) {
	cloneOpts := &git.CloneOptions{
		URL:        url,
		NoCheckout: true, // Only the object database is needed.
		Depth:      1,
	}
	if auth != nil {
		cloneOpts.Auth = &http.BasicAuth{
			Username: auth.Username,
			Password: auth.Password,
		}
	}
	repo, err := git.Clone(memory.NewStorage(), nil, cloneOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone %q: %w", url, err)
	}
	return &Client{repo: repo}, nil
}

// DefaultBranch returns the short name of the branch HEAD points to.
func (c *Client) DefaultBranch() (string, error) {
	ref, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ref.Name().Short(), nil
}

func (c *Client) resolveRevision(revision string) (*plumbing.Hash, error) {
	hash, err := c.repo.ResolveRevision(plumbing.Revision(revision))
	if err == nil {
		return hash, nil
	}
	// Try with origin/ prefix if not found (common for clones).
	if !strings.HasPrefix(revision, "refs/") {
		if hash, err := c.repo.ResolveRevision(plumbing.Revision("origin/" + revision)); err == nil {
			return hash, nil
		}
	}
	return nil, fmt.Errorf("revision not found: %w", err)
}

// ReadFile returns the content of filePath at the given revision (branch,
// tag, or commit hash). Returns object.ErrFileNotFound if the file does not
// exist in that revision's tree.
func (c *Client) ReadFile(revision, filePath string) ([]byte, error) {
	hash, err := c.resolveRevision(revision)
	if err != nil {
		return nil, err
	}
	commit, err := c.repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	file, err := tree.File(filePath)
	if err != nil {
		return nil, err
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
