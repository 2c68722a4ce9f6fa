package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Score sentinel for forced mates. A mate in v plies maps to 32000-v (or
// v-32000 when the side to move is being mated), far outside the centipawn
// range any engine reports, and sign-correct for the side to move.
const mateValue = 32000

var (
	// ErrProtocol is returned when the engine emits a line whose leading
	// token is neither a progress nor a terminal marker during a search.
	ErrProtocol = errors.New("uci: protocol violation")

	// ErrNoScore is returned when a search completes without ever
	// reporting a score.
	ErrNoScore = errors.New("uci: search produced no score")
)

// transport is the byte-level connection to one engine. *Process implements
// it; tests substitute a scripted fake.
type transport interface {
	Write(data []byte) error
	ReadLine() (string, error)
}

// Driver speaks the UCI protocol over one engine transport. It is not safe
// for concurrent use; each driver belongs to exactly one worker.
type Driver struct {
	conn transport
}

// NewDriver wraps an engine transport. The caller keeps ownership of the
// transport and is responsible for closing it.
func NewDriver(conn transport) *Driver {
	return &Driver{conn: conn}
}

func (d *Driver) send(command string) error {
	return d.conn.Write([]byte(command))
}

// waitFor discards lines until one whose first whitespace-delimited token is
// marker. There is no bound: an engine that never answers hangs the caller,
// an accepted risk for a trusted offline batch tool.
func (d *Driver) waitFor(marker string) error {
	for {
		line, err := d.conn.ReadLine()
		if err != nil {
			return err
		}
		if fields := strings.Fields(line); len(fields) > 0 && fields[0] == marker {
			return nil
		}
	}
}

// Handshake initializes the protocol and applies engine options. Each option
// is a "KEY=VALUE" entry; entries without "=" are silently ignored. Every
// applied option is followed by a readiness check.
func (d *Driver) Handshake(options []string) error {
	if err := d.send("uci\n"); err != nil {
		return err
	}
	if err := d.waitFor("uciok"); err != nil {
		return err
	}

	for _, opt := range options {
		name, value, ok := strings.Cut(opt, "=")
		if !ok {
			continue
		}
		if err := d.send(fmt.Sprintf("setoption name %s value %s\n", name, value)); err != nil {
			return err
		}
		if err := d.Sync(); err != nil {
			return err
		}
	}
	return nil
}

// Sync blocks until the engine acknowledges readiness.
func (d *Driver) Sync() error {
	if err := d.send("isready\n"); err != nil {
		return err
	}
	return d.waitFor("readyok")
}

// SetupPosition resets the engine and loads the given FEN.
func (d *Driver) SetupPosition(fen string) error {
	if err := d.send("ucinewgame\n"); err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		return err
	}
	if err := d.send("position fen " + fen + "\n"); err != nil {
		return err
	}
	return d.Sync()
}

// Search runs one search under limit and returns the last score the engine
// reported before the terminal "bestmove" line. The score is in centipawns,
// or a mate encoding when the engine announced a forced mate.
func (d *Driver) Search(limit SearchLimit) (int, error) {
	if err := d.send(limit.GoCommand()); err != nil {
		return 0, err
	}

	var (
		score     int
		haveScore bool
	)

	for {
		line, err := d.conn.ReadLine()
		if err != nil {
			return 0, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			return 0, fmt.Errorf("%w: empty line during search", ErrProtocol)
		}

		switch fields[0] {
		case "info":
			v, ok, err := scanInfo(fields[1:])
			if err != nil {
				return 0, err
			}
			if ok {
				score, haveScore = v, true
			}
		case "bestmove":
			if !haveScore {
				return 0, ErrNoScore
			}
			return score, nil
		default:
			return 0, fmt.Errorf("%w: unexpected token %q", ErrProtocol, fields[0])
		}
	}
}

// scanInfo scans the tokens of one progress line (leading "info" stripped)
// and returns the score it carries, if any. "score" consumes a (kind, value)
// pair; "wdl" discards three tokens of win/draw/loss statistics; bound
// qualifiers consume nothing and do not suppress the score; "pv" ends the
// scan. Any unrecognized token skips exactly one following token, a
// heuristic that assumes single-argument info fields.
func scanInfo(fields []string) (score int, ok bool, err error) {
	for i := 0; i < len(fields); {
		switch fields[i] {
		case "score":
			if i+2 >= len(fields) {
				return 0, false, fmt.Errorf("%w: truncated score", ErrProtocol)
			}
			kind, value := fields[i+1], fields[i+2]
			switch kind {
			case "cp":
				v, perr := strconv.Atoi(value)
				if perr != nil {
					return 0, false, fmt.Errorf("uci: malformed centipawn value %q: %w", value, perr)
				}
				score, ok = v, true
			case "mate":
				v, perr := strconv.Atoi(value)
				if perr != nil {
					return 0, false, fmt.Errorf("uci: malformed mate distance %q: %w", value, perr)
				}
				if v <= 0 {
					score = v - mateValue
				} else {
					score = mateValue - v
				}
				ok = true
			default:
				return 0, false, fmt.Errorf("%w: unknown score kind %q", ErrProtocol, kind)
			}
			i += 3
		case "wdl":
			i += 4
		case "upperbound", "lowerbound":
			i++
		case "pv":
			return score, ok, nil
		default:
			i += 2
		}
	}
	return score, ok, nil
}
