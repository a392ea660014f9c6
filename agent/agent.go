package agent

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	webhook "github.com/go-playground/webhooks/v6/github"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/autodeploy/constants"
	"github.com/redbadger/autodeploy/deployer"
	"github.com/redbadger/autodeploy/events"
	"github.com/redbadger/autodeploy/git"
	"github.com/redbadger/autodeploy/metrics"
	"github.com/redbadger/autodeploy/model"
	"github.com/redbadger/autodeploy/workspace"
)

// Validation failures. All of them are answered with 403.
var (
	ErrMissingURL    = errors.New("gitUrl is required")
	ErrUnauthorized  = errors.New("token does not match")
	ErrInvalidBranch = errors.New("invalid branch")
)

// Syncer brings the working copy of a project up to date
type Syncer interface {
	Sync(ctx context.Context, log git.Emitter, project, url, branch string) (head string, err error)
}

// Deployer runs the deployment inside a working copy
type Deployer interface {
	Deploy(ctx context.Context, dir, command string) (out string, err error)
}

// Agent accepts triggers over HTTP and runs one deployment chain per trigger
type Agent struct {
	cfg       model.Config
	bus       *events.Bus
	workspace *workspace.Workspace
	syncer    Syncer
	deployer  Deployer
	// statuses returns where to report commit statuses for t, nil for nowhere
	statuses func(ctx context.Context, t model.Trigger) statusReporter

	wg sync.WaitGroup
}

// New returns an Agent deploying the working copies of ws
func New(cfg model.Config, bus *events.Bus, ws *workspace.Workspace, s Syncer, d Deployer) *Agent {
	a := &Agent{
		cfg:       cfg,
		bus:       bus,
		workspace: ws,
		syncer:    s,
		deployer:  d,
	}
	a.statuses = a.githubStatuses
	return a
}

// Handler returns the routes of the agent
func (a *Agent) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+constants.DeployPath, a.handleDeploy)
	if a.cfg.GithubSecret != "" {
		hook, err := webhook.New(webhook.Options.Secret(a.cfg.GithubSecret))
		if err != nil {
			log.WithError(err).Error("cannot configure github webhook")
		} else {
			mux.HandleFunc("POST "+constants.WebhookPath, a.handlePush(hook))
		}
	}
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// Serve listens on the configured port until ctx is done, then waits for
// the running deployment chains to finish
func (a *Agent) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(a.cfg.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": srv.Addr, "root": a.workspace.Root()}).Info("listening for triggers")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("cannot listen for triggers: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Wait()
	return err
}

// Wait blocks until every started deployment chain is done
func (a *Agent) Wait() {
	a.wg.Wait()
}

func (a *Agent) handleDeploy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := a.validate(q.Get("gitUrl"), q.Get("branch"), q.Get("command"), q.Get("token"))
	if err != nil {
		log.WithError(err).WithField("remote", r.RemoteAddr).Warn("rejecting trigger")
		metrics.Trigger("deploy", "rejected")
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	metrics.Trigger("deploy", "accepted")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(http.StatusText(http.StatusOK)))
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	a.Start(t)
}

// validate turns request parameters into a trigger
func (a *Agent) validate(url, branch, command, token string) (model.Trigger, error) {
	if url == "" {
		return model.Trigger{}, ErrMissingURL
	}
	if a.cfg.Token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.cfg.Token)) != 1 {
		return model.Trigger{}, ErrUnauthorized
	}
	t := model.Trigger{
		ID:      uuid.New().String(),
		URL:     url,
		Branch:  branch,
		Token:   token,
		Command: command,
	}
	if t.Branch == "" {
		t.Branch = constants.DefaultBranch
	}
	if err := a.complete(&t); err != nil {
		return model.Trigger{}, err
	}
	return t, nil
}

// complete derives the project of t and checks the fields handed to git
func (a *Agent) complete(t *model.Trigger) error {
	if err := git.ValidateRemote(t.URL); err != nil {
		return err
	}
	if !git.ValidBranch(t.Branch) {
		return fmt.Errorf("%w: %q", ErrInvalidBranch, t.Branch)
	}
	if err := deployer.ValidateCommand(t.Command); err != nil {
		return err
	}
	project, err := workspace.ProjectName(t.URL)
	if err != nil {
		return err
	}
	t.Project = project
	return nil
}

// Start runs the deployment chain of t in the background
func (a *Agent) Start(t model.Trigger) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.run(context.Background(), t)
	}()
}
