// This file contains the warning logger the codec reports non-fatal
// problems to.

package bdcff

import "fmt"

// Message is one logged warning with the context it happened in.
type Message struct {
	// Context names where the problem was found ("Line 12", "Cave 'X'").
	Context string

	// Text is the warning itself.
	Text string
}

// String returns the message in "context: text" form.
func (m Message) String() string {
	if m.Context == "" {
		return m.Text
	}
	return m.Context + ": " + m.Text
}

// Logger accumulates parse and format warnings. Parse-level problems are
// never fatal; the caller inspects the logger after loading.
type Logger struct {
	context  string
	messages []Message
}

// SetContext sets the context attached to subsequent warnings.
func (l *Logger) SetContext(format string, args ...any) {
	l.context = fmt.Sprintf(format, args...)
}

// ClearContext removes the current context.
func (l *Logger) ClearContext() {
	l.context = ""
}

// Warn records a warning with the current context.
func (l *Logger) Warn(format string, args ...any) {
	l.messages = append(l.messages, Message{
		Context: l.context,
		Text:    fmt.Sprintf(format, args...),
	})
}

// HasMessages reports whether any warning was recorded.
func (l *Logger) HasMessages() bool {
	return len(l.messages) > 0
}

// Messages returns the recorded warnings in order.
func (l *Logger) Messages() []Message {
	return l.messages
}
