package testutil

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// FakeEngine scripts the engine side of a UCI exchange for driver and worker
// tests without spawning a subprocess.
//
// Each Write is matched against registered command prefixes; the matching
// script's response lines are queued and served by subsequent ReadLine
// calls, mimicking a real engine's request/response flow.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex,
// though a driver only ever uses one goroutine.
type FakeEngine struct {
	mu      sync.Mutex
	scripts []script
	queue   []string
	sent    []string
}

type script struct {
	verb  string
	lines []string
}

// NewFakeEngine creates a fake engine that already answers the handshake and
// readiness commands ("uci" → "uciok", "isready" → "readyok").
func NewFakeEngine() *FakeEngine {
	e := &FakeEngine{}
	e.On("uci", "id name fakefish", "uciok")
	e.On("isready", "readyok")
	return e
}

// On registers response lines for commands whose first word is verb. Later
// registrations take precedence, so tests can override the defaults.
// Commands with no registered script get no response, like a real engine's
// silence on "position" or "setoption".
func (e *FakeEngine) On(verb string, lines ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scripts = append([]script{{verb: verb, lines: lines}}, e.scripts...)
}

// Push queues raw response lines directly, bypassing command matching.
func (e *FakeEngine) Push(lines ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range lines {
		e.queue = append(e.queue, terminated(l))
	}
}

// Sent returns every command line written to the engine so far.
func (e *FakeEngine) Sent() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sent...)
}

// Write records the command and queues the scripted response, if any.
func (e *FakeEngine) Write(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	command := strings.TrimSuffix(string(data), "\n")
	e.sent = append(e.sent, command)

	verb, _, _ := strings.Cut(command, " ")
	for _, s := range e.scripts {
		if verb == s.verb {
			for _, l := range s.lines {
				e.queue = append(e.queue, terminated(l))
			}
			return nil
		}
	}
	return nil
}

// ReadLine serves the next queued response line. An empty queue means the
// script is exhausted, reported as EOF the way a closed pipe would be.
func (e *FakeEngine) ReadLine() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.queue) == 0 {
		return "", fmt.Errorf("script exhausted: %w", io.EOF)
	}
	line := e.queue[0]
	e.queue = e.queue[1:]
	return line, nil
}

func terminated(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}
