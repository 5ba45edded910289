package config

import (
	"fmt"
	"strings"
)

// IssueKind classifies a validation failure.
type IssueKind string

const (
	// KindSchema marks a missing required field or a type mismatch.
	KindSchema IssueKind = "schema"
	// KindConstraint marks a well-typed field that violates a range or
	// cross-field invariant.
	KindConstraint IssueKind = "constraint"
)

// Issue is one violated rule: the dotted YAML path of the offending field
// and a human-readable reason.
type Issue struct {
	Field  string
	Kind   IssueKind
	Reason string
}

// Report is the aggregate validation failure for one analysis document. It
// carries every violation found, not just the first, so a user can fix the
// document in a single edit.
type Report struct {
	Issues []Issue
}

func (r *Report) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:")
	for _, issue := range r.Issues {
		fmt.Fprintf(&sb, "\n  - %s: %s", issue.Field, issue.Reason)
	}
	return sb.String()
}

// Fields returns the dotted paths of all offending fields, in report order.
func (r *Report) Fields() []string {
	fields := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func (r *Report) add(kind IssueKind, field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Field:  field,
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
	})
}
