package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redbadger/autodeploy/metrics"
	"github.com/redbadger/autodeploy/workspace"
)

// Emitter receives human readable progress messages
type Emitter interface {
	Emit(msg string)
}

// Syncer brings a working copy up to date with a remote branch
type Syncer struct {
	git       *Git
	workspace *workspace.Workspace
	// head resolves the commit checked out in a working copy
	head func(dir string) (string, error)
}

// NewSyncer returns a Syncer keeping the working copies of ws up to date
func NewSyncer(g *Git, ws *workspace.Workspace) *Syncer {
	return &Syncer{git: g, workspace: ws, head: Head}
}

// Sync clones project if it has no working copy yet, otherwise checks out
// and pulls branch. It stops at the first failing step. The returned hash
// is empty when HEAD cannot be read after a successful sync.
func (s *Syncer) Sync(ctx context.Context, log Emitter, project, url, branch string) (head string, err error) {
	dir := s.workspace.Path(project)
	exists, err := s.workspace.Exists(project)
	if err != nil {
		return "", fmt.Errorf("cannot stat working copy %s: %w", dir, err)
	}

	if !exists {
		log.Emit("Project has not been cloned yet. Cloning....")
		if err = s.step(ctx, log, "clone", func() (string, error) {
			return s.git.Clone(ctx, url, dir)
		}); err != nil {
			return "", err
		}
		log.Emit("Done cloning")
		if err = s.checkout(ctx, log, dir, branch); err != nil {
			return "", err
		}
	} else {
		if err = s.checkout(ctx, log, dir, branch); err != nil {
			return "", err
		}
		previous, _ := s.head(dir)
		log.Emit("Pulling changes...")
		if err = s.step(ctx, log, "pull", func() (string, error) {
			return s.git.Pull(ctx, dir, "origin", branch)
		}); err != nil {
			return "", err
		}
		log.Emit("Pulled changes")
		if current, err := s.head(dir); err == nil && previous != "" && previous != current {
			s.reportChanges(ctx, log, dir, previous, current)
		}
	}

	head, err = s.head(dir)
	if err != nil {
		return "", nil
	}
	log.Emit("At commit " + head)
	return head, nil
}

func (s *Syncer) checkout(ctx context.Context, log Emitter, dir, branch string) error {
	log.Emit("Checking out branch " + branch + "....")
	err := s.step(ctx, log, "checkout", func() (string, error) {
		return s.git.Checkout(ctx, dir, RemoteRef(branch))
	})
	if err != nil {
		return err
	}
	log.Emit("Checked out branch " + branch)
	return nil
}

func (s *Syncer) step(ctx context.Context, log Emitter, name string, run func() (string, error)) error {
	start := time.Now()
	out, err := run()
	metrics.ObserveStep(name, start, err)
	if out != "" {
		log.Emit(out)
	}
	if err != nil {
		return fmt.Errorf("git %s failed: %w", name, err)
	}
	return nil
}

func (s *Syncer) reportChanges(ctx context.Context, log Emitter, dir, from, to string) {
	dirs, err := s.git.ChangedDirectories(ctx, dir, from, to)
	if err != nil || len(dirs) == 0 {
		return
	}
	log.Emit("Changed directories: " + strings.Join(dirs, ", "))
}
