package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/github"
	log "github.com/sirupsen/logrus"
)

// Commit status states understood by github
const (
	StatePending = "pending"
	StateSuccess = "success"
	StateError   = "error"
)

// Reporter sets commit statuses on one github commit
type Reporter struct {
	client  *github.Client
	context string
	owner   string
	repo    string
	ref     string
}

// NewReporter returns a Reporter for ref in owner/repo
func NewReporter(client *github.Client, context, owner, repo, ref string) *Reporter {
	return &Reporter{client: client, context: context, owner: owner, repo: repo, ref: ref}
}

// Report sets the commit status to state with description msg
func (r *Reporter) Report(ctx context.Context, state, msg string) error {
	log.WithFields(log.Fields{
		"state":   state,
		"message": msg,
		"ref":     r.ref,
	}).Debug("updating github")
	status := github.RepoStatus{
		State:       &state,
		Description: &msg,
		Context:     &r.context,
	}
	_, _, err := r.client.Repositories.CreateStatus(ctx, r.owner, r.repo, r.ref, &status)
	if err != nil {
		return fmt.Errorf("error updating status %v", err)
	}
	return nil
}
