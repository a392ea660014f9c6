package agent

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/redbadger/autodeploy/constants"
	gh "github.com/redbadger/autodeploy/github"
	"github.com/redbadger/autodeploy/metrics"
	"github.com/redbadger/autodeploy/model"
)

// run synchronizes the working copy of t and deploys it. Every step reports
// to the log bus; the returned error has already been emitted.
func (a *Agent) run(ctx context.Context, t model.Trigger) (err error) {
	logger := a.bus.For(t.ID, t.Project)
	logger.Emit("Deployment triggered!")

	update := a.updater(ctx, t)
	update(gh.StatePending, "Deployment started!")

	unlock := a.workspace.Lock(t.Project)
	defer unlock()

	var head string
	defer func() {
		metrics.Deployment(err)
		if err != nil {
			logger.Emit(err.Error())
			update(gh.StateError, describe(t.Project, head, "failed"))
			return
		}
		update(gh.StateSuccess, describe(t.Project, head, "succeeded"))
	}()

	if head, err = a.syncer.Sync(ctx, logger, t.Project, t.URL, t.Branch); err != nil {
		return err
	}

	dir := a.workspace.Path(t.Project)
	logger.Emit("Starting deployment process....")
	logger.Emit("cwd is " + dir)
	out, err := a.deployer.Deploy(ctx, dir, t.Command)
	if out != "" {
		logger.Emit(out)
	}
	if err != nil {
		return err
	}
	logger.Emit("Deployment process done.")
	return nil
}

// describe names the deployed commit when the working copy's HEAD is known
func describe(project, head, outcome string) string {
	if head == "" {
		return fmt.Sprintf("deployment of %s %s", project, outcome)
	}
	if len(head) > 7 {
		head = head[:7]
	}
	return fmt.Sprintf("deployment of %s at %s %s", project, head, outcome)
}

type statusReporter interface {
	Report(ctx context.Context, state, msg string) error
}

// updater returns a function reporting the state of t to github, or doing
// nothing when t did not come from github. Failures are only logged.
func (a *Agent) updater(ctx context.Context, t model.Trigger) func(state, msg string) {
	r := a.statuses(ctx, t)
	return func(state, msg string) {
		if r == nil {
			return
		}
		if err := r.Report(ctx, state, msg); err != nil {
			log.WithError(err).WithField("deployment", t.ID).Warn("cannot update commit status")
		}
	}
}

func (a *Agent) githubStatuses(ctx context.Context, t model.Trigger) statusReporter {
	if a.cfg.GithubToken == "" || t.Owner == "" || t.HeadSHA == "" {
		return nil
	}
	apiURL := t.APIURL
	if apiURL == "" {
		apiURL = a.cfg.GithubAPIURL
	}
	client, err := gh.NewClient(ctx, apiURL, a.cfg.GithubToken)
	if err != nil {
		log.WithError(err).Warn("cannot report commit statuses")
		return nil
	}
	return gh.NewReporter(client, constants.StatusContext, t.Owner, t.Repo, t.HeadSHA)
}
