package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, srv.URL, "s3cr3t")
	if err != nil {
		t.Fatal(err)
	}
	r := NewReporter(client, "autodeploy", "my-org", "my-repo", "abc123")
	if err := r.Report(ctx, StateSuccess, "deployment of my-repo succeeded"); err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(gotPath, "/repos/my-org/my-repo/statuses/abc123") {
		t.Errorf("path = %v", gotPath)
	}
	if gotAuth != "Bearer s3cr3t" {
		t.Errorf("Authorization = %v", gotAuth)
	}
	if gotBody["state"] != "success" || gotBody["context"] != "autodeploy" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestReportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, srv.URL, "wrong")
	if err != nil {
		t.Fatal(err)
	}
	if err := NewReporter(client, "autodeploy", "o", "r", "abc").Report(ctx, StatePending, "started"); err == nil {
		t.Error("expected an error")
	}
}
