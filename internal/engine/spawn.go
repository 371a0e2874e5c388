package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/redactyl/keyelf/internal/types"
)

// WorkerFlag switches the keyelf binary into worker mode: scan the file
// named by the flag value and print result lines on stdout.
const WorkerFlag = "--worker-scan"

// WorkerExitFailure is the status a worker exits with when its scan fails.
const WorkerExitFailure = 3

// waitDelay bounds how long Wait keeps collecting output after the worker
// was killed.
const waitDelay = 5 * time.Second

// Spawner runs one isolated scan of path and reports how it ended. started,
// when non-nil, is called once the worker is running.
type Spawner interface {
	Spawn(ctx context.Context, path string, started func()) types.Outcome
}

// ExecSpawner runs Command with Args followed by the target path, in a child
// process with its own address space.
type ExecSpawner struct {
	Command string
	Args    []string
	Timeout time.Duration

	// Env is added to the inherited environment.
	Env []string
}

// WorkerArgs renders the worker command line for opts, ending with
// WorkerFlag so the target path can be appended.
func WorkerArgs(opts ScanOptions) []string {
	var args []string
	if opts.ChunkSize > 0 {
		args = append(args, "--chunk-size", strconv.Itoa(opts.ChunkSize))
	}
	if opts.NoMmap {
		args = append(args, "--no-mmap")
	}
	return append(args, WorkerFlag)
}

// NewSelfSpawner re-executes the running binary in worker mode.
func NewSelfSpawner(opts ScanOptions, timeout time.Duration) (*ExecSpawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate keyelf executable: %w", err)
	}
	return &ExecSpawner{Command: exe, Args: WorkerArgs(opts), Timeout: timeout}, nil
}

func (s *ExecSpawner) Spawn(ctx context.Context, path string, started func()) types.Outcome {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, s.Args...), path)
	cmd := exec.CommandContext(runCtx, s.Command, args...)
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	stdout := &lineCollector{}
	stderr := &cappedBuffer{limit: maxStderr}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return types.Outcome{State: types.StateFailed, Err: fmt.Errorf("start worker: %w", err)}
	}
	if started != nil {
		started()
	}
	err := cmd.Wait()

	out := types.Outcome{
		Lines:  stdout.Lines(),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if stderr.truncated {
		out.Stderr += "\n[stderr truncated]"
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		out.State = types.StateCompleted
	case ctx.Err() != nil:
		out.State = types.StateFailed
		out.Err = ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		out.State = types.StateTimedOut
		out.Err = fmt.Errorf("worker killed after %s", timeout)
	case errors.As(err, &exitErr):
		out.State = types.StateCrashed
		out.ExitCode = exitErr.ExitCode()
		out.Err = fmt.Errorf("worker %s", exitErr.ProcessState.String())
	default:
		out.State = types.StateFailed
		out.Err = fmt.Errorf("wait for worker: %w", err)
	}
	return out
}
