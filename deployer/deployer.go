package deployer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/redbadger/autodeploy/metrics"
	"github.com/redbadger/autodeploy/process"
)

// ErrInvalidCommand is returned for script names that could be read as options
var ErrInvalidCommand = errors.New("invalid deploy command")

var commandPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:._-]*$`)

// Deployer runs the deployment of a working copy
type Deployer struct {
	runner process.Runner
	// Tool runs `<Tool> deploy` when no command is given
	Tool string
	// ScriptRunner runs `<ScriptRunner> run <command>` otherwise
	ScriptRunner string
}

// New returns a Deployer spawning tool or scriptRunner through runner
func New(runner process.Runner, tool, scriptRunner string) *Deployer {
	return &Deployer{runner: runner, Tool: tool, ScriptRunner: scriptRunner}
}

// ValidateCommand checks that command is empty or a plain script name
func ValidateCommand(command string) error {
	if command == "" || commandPattern.MatchString(command) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidCommand, command)
}

// Deploy runs the deployment inside dir and returns its output
func (d *Deployer) Deploy(ctx context.Context, dir, command string) (out string, err error) {
	if err = ValidateCommand(command); err != nil {
		return "", err
	}
	start := time.Now()
	defer func() { metrics.ObserveStep("deploy", start, err) }()

	if command == "" {
		out, err = d.runner.Run(ctx, dir, d.Tool, "deploy")
	} else {
		out, err = d.runner.Run(ctx, dir, d.ScriptRunner, "run", command)
	}
	if err != nil {
		return out, fmt.Errorf("deployment failed: %w", err)
	}
	return out, nil
}
