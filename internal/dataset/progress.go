package dataset

import (
	"log/slog"
	"time"
)

// Progress tracks how many positions were queued and scored and logs a
// report every ReportEvery responses, with elapsed time and an ETA
// extrapolated from the current scoring rate.
type Progress struct {
	every     int
	start     time.Time
	queries   int
	responses int
}

// NewProgress starts the clock. every <= 0 disables reporting.
func NewProgress(every int) *Progress {
	return &Progress{every: every, start: time.Now()}
}

// AddQuery records one queued workload.
func (p *Progress) AddQuery() {
	p.queries++
}

// AddResponse records one scored position and logs a report when due.
func (p *Progress) AddResponse() {
	p.responses++
	if p.every <= 0 || p.responses%p.every != 0 {
		return
	}

	elapsed := time.Since(p.start)
	estimated := time.Duration(float64(elapsed) / float64(p.responses) * float64(p.queries))
	slog.Info("scoring progress",
		"scored", p.responses,
		"queued", p.queries,
		"elapsed", elapsed.Round(time.Millisecond),
		"eta", (estimated - elapsed).Round(time.Millisecond),
	)
}

// Done logs the final tally.
func (p *Progress) Done() {
	slog.Info("scoring complete",
		"scored", p.responses,
		"elapsed", time.Since(p.start).Round(time.Millisecond),
	)
}

// Responses returns how many positions have been scored so far.
func (p *Progress) Responses() int {
	return p.responses
}
