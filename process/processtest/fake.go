// Package processtest provides a recording process.Runner for tests.
package processtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/redbadger/autodeploy/process"
)

// Call is one recorded invocation
type Call struct {
	Dir     string
	Command string
	Args    []string
}

// String renders the call as a command line
func (c Call) String() string {
	return process.CommandLine(c.Command, c.Args...)
}

// Fake records every call and answers from Outputs and Failures, keyed by
// the first argument that is not an option value. For git calls this is
// the subcommand: "clone", "checkout", "pull".
type Fake struct {
	// Outputs maps a key to the stdout returned for it
	Outputs map[string]string
	// Failures maps a key to the error returned for it
	Failures map[string]error
	// Gate, when set, is received from before every call returns
	Gate chan struct{}

	mu    sync.Mutex
	calls []Call
}

// Run implements process.Runner
func (f *Fake) Run(ctx context.Context, dir, command string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Dir: dir, Command: command, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	k := Key(command, args)
	if err, ok := f.Failures[k]; ok {
		return "", &process.Error{Command: process.CommandLine(command, args...), ExitCode: 1, Stderr: err.Error(), Err: errors.New("exit status 1")}
	}
	return f.Outputs[k], nil
}

// Calls returns a copy of the calls made so far
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Keys returns the key of every call made so far, in order
func (f *Fake) Keys() []string {
	var keys []string
	for _, c := range f.Calls() {
		keys = append(keys, Key(c.Command, c.Args))
	}
	return keys
}

// Key names a call for Outputs and Failures. git calls are keyed by
// subcommand, anything else by "command arg0".
func Key(command string, args []string) string {
	if command != "git" {
		return strings.TrimSpace(command + " " + first(args))
	}
	for i := 0; i < len(args); i++ {
		if args[i] == "-C" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
