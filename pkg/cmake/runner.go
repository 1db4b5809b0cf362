package cmake

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Runner executes one command in a directory
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec and streams their output into the logger
type ExecRunner struct {
	Logger hclog.Logger
}

// Run runs name with args in dir
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out := logger.StandardWriter(&hclog.StandardLoggerOptions{ForceLevel: hclog.Debug})
	cmd.Stdout = out
	cmd.Stderr = out

	logger.Debug("running", "dir", dir, "cmd", name+" "+strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}
