// Package notify carries user-facing notifications out of the state layer.
// It is the CLI equivalent of the storefront's toast messages: transient
// failures and session events surface here, structured logs stay in zerolog.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Notifier receives user-facing messages from the state store and commands.
type Notifier interface {
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Console writes notifications to a writer, one line each.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console notifier. A nil writer defaults to stderr.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out}
}

func (c *Console) Successf(format string, args ...any) { c.printf("", format, args...) }
func (c *Console) Warnf(format string, args ...any)    { c.printf("warning: ", format, args...) }
func (c *Console) Errorf(format string, args ...any)   { c.printf("error: ", format, args...) }

func (c *Console) printf(prefix, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, prefix+format+"\n", args...)
}

// Discard swallows all notifications. Useful in tests.
type Discard struct{}

func (Discard) Successf(string, ...any) {}
func (Discard) Warnf(string, ...any)    {}
func (Discard) Errorf(string, ...any)   {}
