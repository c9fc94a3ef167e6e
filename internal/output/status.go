package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// OSC 9;4 sequences: terminal emulators that support the protocol mirror
// the percentage in their taskbar or dock. Write-only, failures ignored.
const (
	oscProgressSet   = "\x1b]9;4;1;%d\x07"
	oscProgressClear = "\x1b]9;4;0\x07"
)

const (
	clearLine       = "\r\x1b[K"
	spinnerInterval = 100 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type StatusOptions struct {
	Interactive bool
	Quiet       bool
	Verbose     bool
	Styles      Styles
}

// StatusReporter renders events as human-readable lines around a live
// status line. All display mutation is serialized internally; workers call
// it concurrently without coordination.
type StatusReporter struct {
	dst         io.Writer
	interactive bool
	quiet       bool
	verbose     bool
	styles      Styles

	mu       sync.Mutex
	message  string
	frame    int
	spinning bool
	stop     chan struct{}
}

func NewStatusReporter(dst io.Writer, opts StatusOptions) *StatusReporter {
	return &StatusReporter{
		dst:         dst,
		interactive: opts.Interactive,
		quiet:       opts.Quiet,
		verbose:     opts.Verbose,
		styles:      opts.Styles,
	}
}

// SupportsInPlaceUpdates reports whether dst is a character device, i.e.
// whether in-place status updates and escape sequences make sense.
func SupportsInPlaceUpdates(dst io.Writer) bool {
	file, ok := dst.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (r *StatusReporter) Emit(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Event {
	case EventUpdateStarted:
		r.message = event.Message
		r.emitProgressLocked(0)
		r.startSpinnerLocked()
		return nil
	case EventRepoUpdated:
		if r.quiet {
			return nil
		}
		return r.printlnLocked(r.styles.Success.Render(event.Message))
	case EventRepoUnclean:
		if r.quiet {
			return nil
		}
		return r.printlnLocked(r.styles.Warning.Render(event.Message))
	case EventRepoSkipped:
		if !r.verbose || r.quiet {
			return nil
		}
		return r.printlnLocked(r.styles.Muted.Render(event.Message))
	case EventRepoFailed:
		return r.printlnLocked(event.Message)
	case EventUpdateFinished:
		r.stopSpinnerLocked()
		r.clearStatusLocked()
		if r.interactive {
			fmt.Fprint(r.dst, oscProgressClear)
		}
		return r.printlnLocked(r.styles.Muted.Render(event.Message))
	default:
		if r.quiet {
			return nil
		}
		return r.printlnLocked(event.Message)
	}
}

// Progress updates the completion signal and the status line message.
// Called by every worker on task dequeue; last write wins.
func (r *StatusReporter) Progress(checked, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.message = fmt.Sprintf("Updating repositories… (%d/%d)", checked, total)
	if total > 0 {
		r.emitProgressLocked(checked * 100 / total)
	}
	r.renderStatusLocked()
}

func (r *StatusReporter) emitProgressLocked(percent int) {
	if !r.interactive {
		return
	}
	fmt.Fprintf(r.dst, oscProgressSet, percent)
}

func (r *StatusReporter) printlnLocked(line string) error {
	if !r.interactive {
		_, err := fmt.Fprintln(r.dst, line)
		return err
	}

	if _, err := fmt.Fprint(r.dst, clearLine, line, "\n"); err != nil {
		return err
	}
	r.renderStatusLocked()
	return nil
}

func (r *StatusReporter) renderStatusLocked() {
	if !r.interactive || !r.spinning {
		return
	}
	frame := spinnerFrames[r.frame%len(spinnerFrames)]
	fmt.Fprint(r.dst, clearLine, frame, " ", r.message)
}

func (r *StatusReporter) clearStatusLocked() {
	if !r.interactive {
		return
	}
	fmt.Fprint(r.dst, clearLine)
}

func (r *StatusReporter) startSpinnerLocked() {
	if !r.interactive || r.spinning {
		return
	}
	r.spinning = true
	r.stop = make(chan struct{})
	r.renderStatusLocked()

	go func(stop chan struct{}) {
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.mu.Lock()
				if r.spinning {
					r.frame++
					r.renderStatusLocked()
				}
				r.mu.Unlock()
			}
		}
	}(r.stop)
}

func (r *StatusReporter) stopSpinnerLocked() {
	if !r.spinning {
		return
	}
	r.spinning = false
	close(r.stop)
}
