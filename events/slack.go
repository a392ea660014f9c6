package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/redbadger/autodeploy/metrics"
)

const (
	slackQueueSize = 256
	slackTimeout   = 10 * time.Second // bounds chat delivery only, git and deploy processes are never timed out
)

// Slack posts events to an incoming chat webhook. Delivery is best effort:
// messages are sent one at a time from a queue and dropped when the queue
// is full or the endpoint fails.
type Slack struct {
	url    string
	client *http.Client
	queue  chan Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

type slackPayload struct {
	Text string `json:"text"`
}

// NewSlack returns a sink posting to webhookURL and starts its sender
func NewSlack(webhookURL string) (*Slack, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("cannot parse slack URL: %w", err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("slack URL %q must be an http(s) URL", webhookURL)
	}
	s := &Slack{
		url:    u.String(),
		client: &http.Client{Timeout: slackTimeout},
		queue:  make(chan Event, slackQueueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Send implements Sink. It never blocks.
func (s *Slack) Send(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- e:
	default:
		metrics.NotificationDropped("slack", "queue_full")
	}
}

// Close stops accepting events and waits for the queued ones to be sent
func (s *Slack) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *Slack) run() {
	defer close(s.done)
	for e := range s.queue {
		if err := s.post(e.Message); err != nil {
			log.WithError(err).Debug("slack notification failed")
			metrics.NotificationDropped("slack", "error")
		}
	}
}

func (s *Slack) post(text string) error {
	body, err := json.Marshal(slackPayload{Text: text})
	if err != nil {
		return err
	}
	form := url.Values{"payload": {string(body)}}
	resp, err := s.client.Post(s.url, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("received response code %d", resp.StatusCode)
	}
	return nil
}
