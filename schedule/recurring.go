package schedule

import (
	"time"

	"github.com/gorhill/cronexpr"
)

// Recurring is a crontab-style recurrence rule, extracted from the
// teacher's goja cronNext builtin (interpreters/goja/goja.go) into a
// plain function over gorhill/cronexpr, now that there's no scripting
// layer around it to call it from.
type Recurring struct {
	expr *cronexpr.Expression
}

// ParseRecurring parses a standard five-field crontab expression.
func ParseRecurring(spec string) (*Recurring, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, err
	}
	return &Recurring{expr: expr}, nil
}

// Next returns the first occurrence strictly after t.
func (r *Recurring) Next(t time.Time) time.Time {
	return r.expr.Next(t)
}
