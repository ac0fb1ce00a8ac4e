// Package notify delivers pipeline failure reports to an operator.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Report describes one failed pipeline pass.
type Report struct {
	RunID    string
	Category string
	Message  string
	Detail   string
	When     time.Time
}

// Notifier delivers failure reports. Implementations must tolerate repeated
// delivery of the same report.
type Notifier interface {
	Notify(ctx context.Context, r Report) error
}

// Nop returns a notifier that discards every report.
func Nop() Notifier { return nopNotifier{} }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Report) error { return nil }

// renderReport produces the plain-text body of a failure report.
func renderReport(r Report) string {
	var sb strings.Builder

	sb.WriteString("Timeline pipeline failure\n")
	sb.WriteString(strings.Repeat("=", 40) + "\n\n")

	sb.WriteString(fmt.Sprintf("Run:      %s\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Category: %s\n", r.Category))
	sb.WriteString(fmt.Sprintf("Time:     %s\n\n", r.When.Format(time.RFC3339)))

	sb.WriteString("MESSAGE\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	sb.WriteString(r.Message + "\n")

	if r.Detail != "" {
		sb.WriteString("\nDETAIL\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		sb.WriteString(r.Detail + "\n")
	}

	return sb.String()
}
