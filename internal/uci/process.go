package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Process is a running engine subprocess with piped stdin/stdout.
//
// Write and ReadLine are the only primitives the protocol layer needs: raw
// byte append to the engine's input, and a blocking full-line read from its
// output. Either fails once the pipe is broken or the process has exited;
// such failures are fatal for the instance and are not retried here.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// Start launches the engine binary at path with piped stdin/stdout.
// The process is killed if ctx is cancelled. Stderr is discarded.
func Start(ctx context.Context, path string) (*Process, error) {
	cmd := exec.CommandContext(ctx, path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %q: %w", path, err)
	}

	return &Process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}, nil
}

// Write appends raw bytes to the engine's input stream.
func (p *Process) Write(data []byte) error {
	if _, err := p.stdin.Write(data); err != nil {
		return fmt.Errorf("write to engine: %w", err)
	}
	return nil
}

// ReadLine blocks until a full line (terminator included) is available from
// the engine's output stream.
func (p *Process) ReadLine() (string, error) {
	line, err := p.stdout.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read from engine: %w", err)
	}
	return line, nil
}

// Close asks the engine to quit and reaps the process. The pipe may already
// be gone when the engine exited on its own, so write errors are ignored.
func (p *Process) Close() error {
	_, _ = p.stdin.Write([]byte("quit\n"))
	_ = p.stdin.Close()
	return p.cmd.Wait()
}
