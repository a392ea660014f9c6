package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/redbadger/autodeploy/process"
)

// Git runs git subcommands through a process.Runner
type Git struct {
	runner process.Runner
}

// New returns a Git that spawns processes with runner
func New(runner process.Runner) *Git {
	return &Git{runner: runner}
}

// Run executes git with args and returns the captured stdout
func (g *Git) Run(ctx context.Context, args ...string) (string, error) {
	return g.runner.Run(ctx, "", "git", args...)
}

// Clone clones url into dir
func (g *Git) Clone(ctx context.Context, url, dir string) (string, error) {
	return g.Run(ctx, "clone", "--", url, dir)
}

// Checkout checks out ref in the working copy at dir
func (g *Git) Checkout(ctx context.Context, dir, ref string) (string, error) {
	return g.Run(ctx, "-C", dir, "checkout", ref)
}

// Pull pulls branch from remote into the working copy at dir
func (g *Git) Pull(ctx context.Context, dir, remote, branch string) (string, error) {
	return g.Run(ctx, "-C", dir, "pull", remote, branch)
}

// ChangedDirectories returns the unique top level directory names
// in which files changed between from and to
func (g *Git) ChangedDirectories(ctx context.Context, dir, from, to string) (directories []string, err error) {
	o, err := g.Run(ctx, "-C", dir, "diff", "--name-only", from, to)
	if err != nil {
		return nil, fmt.Errorf("error in git diff: %w", err)
	}
	for _, change := range strings.Split(o, "\n") {
		d := getTopLevelDirName(change)
		if d != "" {
			directories = appendIfMissing(directories, d)
		}
	}
	return
}

// RemoteRef names the remote-tracking reference for branch on origin
func RemoteRef(branch string) string {
	return "origin/" + branch
}

// ErrInvalidRemote is returned for repository URLs git must not be handed
var ErrInvalidRemote = errors.New("invalid repository URL")

var (
	remoteSchemes = map[string]bool{"https": true, "http": true, "ssh": true, "git": true}
	scpRemote     = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[^:]`)
)

// ValidateRemote accepts http(s), ssh and git URLs and scp-style
// user@host:path remotes. Transport helpers such as ext:: are refused.
func ValidateRemote(url string) error {
	if strings.HasPrefix(url, "-") || strings.Contains(url, "::") || strings.ContainsAny(url, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidRemote, url)
	}
	if i := strings.Index(url, "://"); i >= 0 {
		if !remoteSchemes[strings.ToLower(url[:i])] || len(url) == i+3 {
			return fmt.Errorf("%w: %q", ErrInvalidRemote, url)
		}
		return nil
	}
	if !scpRemote.MatchString(url) {
		return fmt.Errorf("%w: %q", ErrInvalidRemote, url)
	}
	return nil
}

var branchPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// ValidBranch reports whether branch is a plain branch name
func ValidBranch(branch string) bool {
	return branchPattern.MatchString(branch) &&
		!strings.Contains(branch, "..") &&
		!strings.HasSuffix(branch, "/") &&
		!strings.HasSuffix(branch, ".lock")
}
