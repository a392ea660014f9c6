package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

type chatServer struct {
	mu    sync.Mutex
	texts []string
	ctype string
}

func (c *chatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var p slackPayload
	if err := json.Unmarshal([]byte(r.PostForm.Get("payload")), &p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.texts = append(c.texts, p.Text)
	c.ctype = r.Header.Get("Content-Type")
	c.mu.Unlock()
}

func TestSlackPostsPayloads(t *testing.T) {
	chat := &chatServer{}
	srv := httptest.NewServer(chat)
	defer srv.Close()

	s, err := NewSlack(srv.URL + "/services/T/B/X")
	if err != nil {
		t.Fatal(err)
	}
	bus := NewBus()
	bus.Subscribe(s)
	want := []string{"Deployment triggered!", `said "hi" & left`, "Deployment process done."}
	for _, m := range want {
		bus.Emit(m)
	}
	s.Close()

	if !reflect.DeepEqual(chat.texts, want) {
		t.Errorf("chat got %q, want %q", chat.texts, want)
	}
	if chat.ctype != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", chat.ctype)
	}
}

func TestSlackFailureDoesNotStopConsole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewSlack(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	logger, hook := test.NewNullLogger()
	bus := NewBus()
	bus.Subscribe(s)
	bus.Subscribe(NewConsole(logger))
	bus.Emit("one")
	bus.Emit("two")
	s.Close()

	if got := len(hook.AllEntries()); got != 2 {
		t.Errorf("console got %d entries, want 2", got)
	}
}

func TestSlackUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := NewSlack(url)
	if err != nil {
		t.Fatal(err)
	}
	s.Send(Event{Message: "lost"})
	s.Close()
	s.Send(Event{Message: "after close"})
}

func TestNewSlackRejectsBadURL(t *testing.T) {
	tests := []string{"", "not a url", "ftp://hooks.example.com/x", "https://"}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			if _, err := NewSlack(u); err == nil {
				t.Errorf("NewSlack(%q) expected an error", u)
			}
		})
	}
}
