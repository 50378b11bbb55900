package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
)

// RunOutput is what one exporter run produced.
type RunOutput struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs the exporter for one asset in a separate process.
type Runner interface {
	Run(ctx context.Context, asset, outputDir string) (*RunOutput, error)
}

// SelfRunner runs the exporter by re-executing the current binary with the
// export command, so a crashing host only fails one run.
type SelfRunner struct {
	// Executable is the gmhelper binary.
	Executable string
	// Args are placed before the export command, e.g. --config.
	Args []string
}

// NewSelfRunner creates a SelfRunner for the running binary.
func NewSelfRunner(args ...string) (*SelfRunner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate gmhelper executable: %w", err)
	}
	return &SelfRunner{Executable: exe, Args: args}, nil
}

// Command returns the argument list of one run.
func (r *SelfRunner) Command(asset, outputDir string) []string {
	args := append([]string{}, r.Args...)
	args = append(args, "export", "--filepath", asset)
	if outputDir != "" {
		args = append(args, "--outputdir", outputDir)
	}
	return args
}

// Run implements Runner. A non-zero exit is reported in RunOutput.ExitCode,
// not as an error.
func (r *SelfRunner) Run(ctx context.Context, asset, outputDir string) (*RunOutput, error) {
	cmd := exec.CommandContext(ctx, r.Executable, r.Command(asset, outputDir)...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &RunOutput{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && ctx.Err() == nil {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, fmt.Errorf("failed to run exporter: %w", err)
}
