package adapters

import (
	"bufio"
	"context"
	"os/exec"
	"sync"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// OSProcessExecutor implements domain.ProcessExecutor using os/exec.
type OSProcessExecutor struct{}

// NewOSProcessExecutor creates an os/exec-backed process executor.
func NewOSProcessExecutor() *OSProcessExecutor {
	return &OSProcessExecutor{}
}

func (e *OSProcessExecutor) Execute(ctx context.Context, argv []string, cwd string, env []string, captureOutput bool) (domain.ExecResult, error) {
	if len(argv) == 0 {
		return domain.ExecResult{}, errEmptyArgv
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = env

	if !captureOutput {
		err := cmd.Run()
		return domain.ExecResult{ExitCode: exitCodeOf(err)}, runErr(err)
	}

	stdout, err := cmd.Output()
	var stderr []byte
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr = exitErr.Stderr
	}

	return domain.ExecResult{
		ExitCode: exitCodeOf(err),
		Stdout:   string(stdout),
		Stderr:   string(stderr),
	}, runErr(err)
}

// ExecuteAsync spawns argv and streams stdout/stderr to the given callbacks,
// one line at a time, draining both pipes concurrently on dedicated
// goroutines so neither stream can block the other.
func (e *OSProcessExecutor) ExecuteAsync(ctx context.Context, argv []string, cwd string, env []string, onStdout, onStderr func(line string)) (domain.ProcessHandle, error) {
	if len(argv) == 0 {
		return nil, errEmptyArgv
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = env

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go drainLines(&wg, stdoutPipe, onStdout)
	go drainLines(&wg, stderrPipe, onStderr)

	return &osProcessHandle{cmd: cmd, streamsDone: &wg}, nil
}

func drainLines(wg *sync.WaitGroup, r interface{ Read([]byte) (int, error) }, onLine func(string)) {
	defer wg.Done()
	if onLine == nil {
		return
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
}

type osProcessHandle struct {
	cmd         *exec.Cmd
	streamsDone *sync.WaitGroup
	mu          sync.Mutex
	waited      bool
	exitCode    int
	waitErr     error
}

func (h *osProcessHandle) WaitFor(ctx context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.waited {
		return h.exitCode, h.waitErr
	}

	h.streamsDone.Wait()
	err := h.cmd.Wait()
	h.waited = true
	h.exitCode = exitCodeOf(err)
	h.waitErr = runErr(err)
	return h.exitCode, h.waitErr
}

func (h *osProcessHandle) IsAlive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.waited
}

func (h *osProcessHandle) Destroy() error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Kill()
}

var errEmptyArgv = exitError{msg: "empty argv"}

type exitError struct{ msg string }

func (e exitError) Error() string { return e.msg }

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// runErr suppresses *exec.ExitError: the caller reads ExitCode instead, the
// same convention the compiler driver (§4.I) relies on to distinguish a
// failed compile from a spawn failure.
func runErr(err error) error {
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}
