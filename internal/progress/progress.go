// Package progress provides thread-safe progress reporting for scan, move,
// and undo operations. Listeners subscribe to a channel and receive every
// update the operations publish; updates are dropped rather than blocking a
// slow listener.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/fenilsonani/declutter/pkg/utils"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning    Phase = "scanning"
	PhaseClassifying Phase = "classifying"
	PhaseMoving      Phase = "moving"
	PhaseUndoing     Phase = "undoing"
	PhaseComplete    Phase = "complete"
	PhaseError       Phase = "error"
)

// ScanProgress represents progress during directory scanning
type ScanProgress struct {
	Phase       Phase
	CurrentPath string
	FilesFound  int
	TotalSize   int64
	StartTime   time.Time
	Error       error
}

// MoveProgress represents progress during a move or undo pass. Percent is
// updated after every file, success or failure, so it is monotonic for a
// sequential pass.
type MoveProgress struct {
	Phase       Phase
	CurrentFile string
	Done        int
	Total       int
	Percent     int
	MovedSize   int64
	StartTime   time.Time
	Error       error
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	scanProgress *ScanProgress
	moveProgress *MoveProgress
	mu           sync.RWMutex
	listeners    []chan interface{}
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan interface{}, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan interface{}, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScan updates scan progress and notifies listeners
func (r *Reporter) UpdateScan(update *ScanProgress) {
	r.mu.Lock()
	r.scanProgress = update
	listeners := make([]chan interface{}, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	r.notify(listeners, update)
}

// UpdateMove updates move progress and notifies listeners
func (r *Reporter) UpdateMove(update *MoveProgress) {
	r.mu.Lock()
	r.moveProgress = update
	listeners := make([]chan interface{}, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	r.notify(listeners, update)
}

func (r *Reporter) notify(listeners []chan interface{}, update interface{}) {
	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// GetScan returns the current scan progress
func (r *Reporter) GetScan() *ScanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scanProgress
}

// GetMove returns the current move progress
func (r *Reporter) GetMove() *MoveProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.moveProgress
}

// Percent computes the whole-file progress percentage, rounded to the
// nearest integer. A zero total reports 100.
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(float64(done)/float64(total)*100 + 0.5)
}

// FormatScan returns a human-readable scan progress string
func FormatScan(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("Scanning... Found %d files (%s) [%s]",
			p.FilesFound,
			utils.FormatBytes(p.TotalSize),
			utils.FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d files (%s) in %s",
			p.FilesFound,
			utils.FormatBytes(p.TotalSize),
			utils.FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatMove returns a human-readable move progress string
func FormatMove(p *MoveProgress) string {
	if p == nil {
		return "Preparing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseMoving, PhaseUndoing:
		return fmt.Sprintf("%s... %d/%d files (%d%%) - %s",
			verbFor(p.Phase),
			p.Done,
			p.Total,
			p.Percent,
			utils.FormatBytes(p.MovedSize))
	case PhaseComplete:
		return fmt.Sprintf("Done: %d files (%s) in %s",
			p.Done,
			utils.FormatBytes(p.MovedSize),
			utils.FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Move error: %v", p.Error)
	default:
		return "Preparing..."
	}
}

func verbFor(phase Phase) string {
	if phase == PhaseUndoing {
		return "Restoring"
	}
	return "Organizing"
}
