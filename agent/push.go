package agent

import (
	"errors"
	"net/http"
	"strings"

	webhook "github.com/go-playground/webhooks/v6/github"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	gh "github.com/redbadger/autodeploy/github"
	"github.com/redbadger/autodeploy/metrics"
	"github.com/redbadger/autodeploy/model"
)

const branchPrefix = "refs/heads/"

// handlePush turns a signed github push into a trigger for the pushed
// branch. The chain is started before the handler returns, so a server
// shutdown waits for it.
func (a *Agent) handlePush(hook *webhook.Webhook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := hook.Parse(r, webhook.PushEvent)
		switch {
		case errors.Is(err, webhook.ErrEventNotFound):
			// ping and other events
			metrics.Trigger("webhook", "ignored")
			w.WriteHeader(http.StatusNoContent)
			return
		case errors.Is(err, webhook.ErrMissingHubSignatureHeader), errors.Is(err, webhook.ErrHMACVerificationFailed):
			log.WithError(err).WithField("remote", r.RemoteAddr).Warn("rejecting push")
			metrics.Trigger("webhook", "rejected")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		case err != nil:
			log.WithError(err).Warn("cannot parse push")
			metrics.Trigger("webhook", "rejected")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		pl, ok := payload.(webhook.PushPayload)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		t, ok := a.pushTrigger(pl)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		metrics.Trigger("webhook", "accepted")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(http.StatusText(http.StatusOK)))
		a.Start(t)
	}
}

// pushTrigger builds the trigger for pl, or reports false for pushes that
// deploy nothing: tags, deleted branches and unusable repositories
func (a *Agent) pushTrigger(pl webhook.PushPayload) (model.Trigger, bool) {
	fields := log.Fields{"ref": pl.Ref, "repository": pl.Repository.FullName, "sha": pl.After}
	if !strings.HasPrefix(pl.Ref, branchPrefix) || pl.Deleted {
		log.WithFields(fields).Info("ignoring push")
		metrics.Trigger("webhook", "ignored")
		return model.Trigger{}, false
	}

	t := model.Trigger{
		ID:      uuid.New().String(),
		URL:     pl.Repository.CloneURL,
		Branch:  strings.TrimPrefix(pl.Ref, branchPrefix),
		HeadSHA: pl.After,
	}
	if parts := strings.SplitN(pl.Repository.FullName, "/", 2); len(parts) == 2 {
		t.Owner, t.Repo = parts[0], parts[1]
	}
	if apiURL, err := gh.APIRoot(pl.Repository.StatusesURL); err == nil {
		t.APIURL = apiURL
	}
	if err := a.complete(&t); err != nil {
		log.WithError(err).WithFields(fields).Warn("rejecting push")
		metrics.Trigger("webhook", "rejected")
		return model.Trigger{}, false
	}
	return t, true
}
