package export

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Report accumulates the outcome of one static build across workers.
type Report struct {
	mu sync.Mutex

	written  int
	skipped  int
	failed   int
	errors   []string
	pageTime time.Duration // Summed per-page render and write time.
	duration time.Duration // Wall clock for the whole build.
}

func NewReport() *Report {
	return &Report{}
}

// AddWritten records a page that was rendered and written out.
func (r *Report) AddWritten(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written++
	r.pageTime += d
}

// AddSkipped records a page whose bytes matched what is already on disk.
func (r *Report) AddSkipped(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
	r.pageTime += d
}

// AddFailed records a page that could not be rendered or written.
func (r *Report) AddFailed(route string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
	r.errors = append(r.errors, fmt.Sprintf("%s: %s", route, err))
}

// SetDuration records the wall-clock time of the whole build.
func (r *Report) SetDuration(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duration = d
}

// ReportSnapshot is a read-only, JSON-safe copy of build state.
type ReportSnapshot struct {
	Written    int      `json:"written"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
	PageTimeMs int64    `json:"page_time_ms"`
	DurationMs int64    `json:"duration_ms"`
}

// Pages returns the number of pages the build touched.
func (s ReportSnapshot) Pages() int {
	return s.Written + s.Skipped + s.Failed
}

// Snapshot returns a copy of the report safe to read after Build returns.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]string, len(r.errors))
	copy(errs, r.errors)
	return ReportSnapshot{
		Written:    r.written,
		Skipped:    r.skipped,
		Failed:     r.failed,
		Errors:     errs,
		PageTimeMs: r.pageTime.Milliseconds(),
		DurationMs: r.duration.Milliseconds(),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
