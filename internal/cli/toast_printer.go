package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/edgarogh/mdj/internal/toast"
)

// ToastPrinter writes toasts to a terminal as they reach the head of the queue.
type ToastPrinter struct {
	queue  *toast.Queue
	out    io.Writer
	colors map[toast.Severity]*color.Color

	mu      sync.Mutex
	printed map[*toast.Toast]bool
}

func NewToastPrinter(queue *toast.Queue, out io.Writer, colored bool) *ToastPrinter {
	printer := &ToastPrinter{
		queue: queue,
		out:   out,
		colors: map[toast.Severity]*color.Color{
			toast.SeverityNone:    color.New(color.Reset),
			toast.SeveritySuccess: color.New(color.FgGreen),
			toast.SeverityInfo:    color.New(color.FgCyan),
			toast.SeverityWarning: color.New(color.FgYellow),
			toast.SeverityError:   color.New(color.FgRed, color.Bold),
		},
		printed: make(map[*toast.Toast]bool),
	}
	if !colored {
		for _, c := range printer.colors {
			c.DisableColor()
		}
	}
	return printer
}

// Attach prints the current toast after every queue change and starts its countdown,
// so the next one is shown once it is evicted. It returns the detach function.
func (printer *ToastPrinter) Attach() func() {
	unsubscribe := printer.queue.Subscribe(printer.printCurrent)
	printer.printCurrent()
	return unsubscribe
}

func (printer *ToastPrinter) printCurrent() {
	printer.forgetExpired()
	current := printer.queue.Current()
	if current == nil || !printer.printOnce(current) {
		return
	}
	current.StartCountdown()
}

// Flush prints every pending toast not printed yet. One-shot commands call it before exiting.
func (printer *ToastPrinter) Flush() {
	for _, t := range printer.queue.Pending() {
		printer.printOnce(t)
	}
}

// forgetExpired drops printed toasts that left the pending list. Expired
// toasts are never current or pending again.
func (printer *ToastPrinter) forgetExpired() {
	pending := make(map[*toast.Toast]bool)
	for _, t := range printer.queue.Pending() {
		pending[t] = true
	}

	printer.mu.Lock()
	defer printer.mu.Unlock()
	for t := range printer.printed {
		if !pending[t] {
			delete(printer.printed, t)
		}
	}
}

func (printer *ToastPrinter) printOnce(t *toast.Toast) bool {
	printer.mu.Lock()
	defer printer.mu.Unlock()
	if printer.printed[t] {
		return false
	}
	printer.printed[t] = true

	c, ok := printer.colors[t.Severity]
	if !ok {
		c = printer.colors[toast.SeverityNone]
	}
	prefix := ""
	if t.Severity != toast.SeverityNone {
		prefix = fmt.Sprintf("[%s] ", t.Severity)
	}
	_, _ = c.Fprintf(printer.out, "%s%s\n", prefix, t.Text)
	return true
}
