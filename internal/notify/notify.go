// Package notify prints the progress of a run for the user.
package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	fcolor "github.com/fatih/color"
)

// Notifier writes progress lines to a writer.
type Notifier struct {
	w      io.Writer
	start  time.Time
	indent string

	activity, success, info, warning, failure *fcolor.Color
}

// New returns a notifier writing to w, os.Stdout if w is nil.
func New(w io.Writer) *Notifier {
	if w == nil {
		w = os.Stdout
	}
	return &Notifier{
		w:        w,
		start:    time.Now(),
		activity: fcolor.New(fcolor.Reset),
		success:  fcolor.New(fcolor.FgGreen),
		info:     fcolor.New(fcolor.FgBlue),
		warning:  fcolor.New(fcolor.FgYellow),
		failure:  fcolor.New(fcolor.FgRed, fcolor.Bold),
	}
}

// Nested returns a notifier whose lines are indented below the ones of n.
func (n *Notifier) Nested() *Notifier {
	nested := *n
	nested.indent += "    "
	return &nested
}

// Step announces a step and returns a function reporting its completion
// together with the time it took.
//
//	done := n.Step("Loading base grid")
//	...
//	done("Loaded base grid")
func (n *Notifier) Step(format string, args ...any) func(format string, args ...any) {
	n.print(n.activity, "▶️  ", format, args...)
	timer := time.Now()

	return func(format string, args ...any) {
		n.print(n.success, "✔️  ", "%s in %s", fmt.Sprintf(format, args...), time.Since(timer).String())
	}
}

// Successf reports something that succeeded.
func (n *Notifier) Successf(format string, args ...any) {
	n.print(n.success, "✔️  ", format, args...)
}

// Infof reports a detail.
func (n *Notifier) Infof(format string, args ...any) {
	n.print(n.info, "ℹ️  ", format, args...)
}

// Warningf reports something that was skipped or looks suspicious.
func (n *Notifier) Warningf(format string, args ...any) {
	n.print(n.warning, "⚠️  ", format, args...)
}

// Errorf reports a failure.
func (n *Notifier) Errorf(format string, args ...any) {
	n.print(n.failure, "❌  ", format, args...)
}

// Finished prints the total runtime since the notifier was created.
func (n *Notifier) Finished() {
	n.success.Fprintf(n.w, "\n    🎉  Finished in %s\n", time.Since(n.start).String())
}

func (n *Notifier) print(c *fcolor.Color, symbol, format string, args ...any) {
	c.Fprintf(n.w, "%s%s%s\n", n.indent, symbol, fmt.Sprintf(format, args...))
}
