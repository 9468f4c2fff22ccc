package db

import (
	"fmt"
	"strings"
	"time"
)

// Operation selects how a Filter compares its Key against its Values
// when rendered into a SQL where-clause fragment.
type Operation int

const (
	In Operation = iota
	LessThan
	GreaterThan
)

// Filter narrows a query to rows where Key satisfies Operation against
// Values. With the default In operation and more than one value, the
// values are OR'd together.
type Filter struct {
	Key      string
	Values   []interface{}
	Operator Operation
}

func (f Filter) String() string {
	switch f.Operator {
	case LessThan:
		return f.compare("<")
	case GreaterThan:
		return f.compare(">")
	default:
		return f.belongs()
	}
}

func quote(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return fmt.Sprintf("'%s'", t.Format(time.RFC3339))
	}
	return fmt.Sprintf("'%v'", v)
}

func (f Filter) belongs() string {
	quoted := make([]string, len(f.Values))
	for i, v := range f.Values {
		quoted[i] = quote(v)
	}
	return fmt.Sprintf("%s in (%s)", f.Key, strings.Join(quoted, ","))
}

// compare joins every value with `and` since, unlike the In case, a
// range comparison against several values is only ever meant to
// narrow a query further rather than broaden it (e.g. two LessThan
// filters on the same key building a bounded window).
func (f Filter) compare(op string) string {
	var b strings.Builder
	for i, v := range f.Values {
		if i > 0 {
			b.WriteString(" and ")
		}
		fmt.Fprintf(&b, "%s %s %s", f.Key, op, quote(v))
	}
	return b.String()
}
