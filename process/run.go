package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner executes an external command in workingDir and returns its stdout
type Runner interface {
	Run(ctx context.Context, workingDir, command string, args ...string) (stdout string, err error)
}

// Error is returned when a command cannot be started or exits non-zero
type Error struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exec runs commands as child processes, never through a shell
type Exec struct {
	// Env is appended to the inherited environment
	Env []string
}

// Run executes command (in the specified workingDir) with args
// and returns the captured stdout
func (x Exec) Run(ctx context.Context, workingDir, command string, args ...string) (string, error) {
	cmdline := CommandLine(command, args...)
	log.WithFields(log.Fields{"cwd": workingDir, "cmd": cmdline}).Debug("running command")

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = append(os.Environ(), x.Env...)
	cmd.Dir = workingDir
	var o, e bytes.Buffer
	cmd.Stdout = &o
	cmd.Stderr = &e
	err := cmd.Run()
	stdout := strings.TrimSpace(o.String())
	if err != nil {
		perr := &Error{
			Command:  cmdline,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(e.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		return stdout, perr
	}
	return stdout, nil
}

// CommandLine renders command and args for logs, quoting args with whitespace
func CommandLine(command string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{command}, args...) {
		if s == "" || strings.ContainsAny(s, " \t\n") {
			s = fmt.Sprintf("%q", s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
