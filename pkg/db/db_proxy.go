package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx"
)

// QueryDesc describes a `select Props from Table where Filters` query
// without the caller having to hand-assemble SQL. Filters are joined
// with `and`.
type QueryDesc struct {
	Props   []string
	Table   string
	Filters []Filter
}

func (q QueryDesc) valid() bool {
	return len(q.Props) > 0 && q.Table != ""
}

func (q QueryDesc) generate() string {
	var b strings.Builder
	fmt.Fprintf(&b, "select %s from %s", strings.Join(q.Props, ", "), q.Table)

	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" where ")
		} else {
			b.WriteString(" and ")
		}
		b.WriteString(f.String())
	}

	return b.String()
}

// QueryResult wraps pgx.Rows so callers don't import pgx directly.
// Callers still Close it; Close is safe to defer even when the query
// failed and no rows were returned.
type QueryResult struct {
	rows *pgx.Rows
	Err  error
}

func (q QueryResult) Next() bool {
	return q.rows.Next()
}

func (q QueryResult) Scan(dest ...interface{}) error {
	return q.rows.Scan(dest...)
}

func (q QueryResult) Close() {
	if q.rows != nil {
		q.rows.Close()
	}
}

// InsertReq describes a call to a named Postgres insert function:
// `select Script(Args...)`, or `select * from Script(Args...)` when
// the function is expected to return the created row.
type InsertReq struct {
	Script     string
	Args       []interface{}
	SkipReturn bool
}

// Convertible lets a domain type supply a DB-facing shape that
// differs from its normal JSON representation (e.g. to drop fields
// the schema doesn't have a column for).
type Convertible interface {
	Convert() interface{}
}

// Proxy is the only thing the rest of the module needs to talk to
// Postgres: it turns a QueryDesc/InsertReq into SQL text and runs it
// against the wrapped DB, translating pgx errors into this package's
// ErrorType taxonomy.
type Proxy struct {
	dbase *DB
}

// NewProxy wraps an already-connected DB.
func NewProxy(dbase *DB) Proxy {
	return Proxy{dbase: dbase}
}

// FetchFromDB runs the select described by query and returns its rows.
func (p Proxy) FetchFromDB(query QueryDesc) (QueryResult, error) {
	if p.dbase == nil {
		return QueryResult{}, ErrInvalidDB
	}
	if !query.valid() {
		return QueryResult{}, ErrInvalidQuery
	}

	res := QueryResult{}
	res.rows, res.Err = p.dbase.DBQuery(query.generate())
	return res, nil
}

// marshalArg renders a single insert argument as a quoted SQL
// literal: Convertible types are marshalled via their Convert()
// facet, strings pass through unquoted-by-JSON (so they don't end up
// double-quoted inside the outer SQL quotes), everything else is
// JSON-marshalled as-is.
func marshalArg(arg interface{}) (string, error) {
	if cvrt, ok := arg.(Convertible); ok {
		raw, err := json.Marshal(cvrt.Convert())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("'%s'", raw), nil
	}

	if str, ok := arg.(string); ok {
		return fmt.Sprintf("'%s'", str), nil
	}

	raw, err := json.Marshal(arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s'", raw), nil
}

// InsertToDB calls the named script described by req, quoting and
// marshalling each argument in order.
func (p Proxy) InsertToDB(req InsertReq) error {
	if p.dbase == nil {
		return ErrInvalidDB
	}

	argsAsStr := make([]string, 0, len(req.Args))
	for _, arg := range req.Args {
		str, err := marshalArg(arg)
		if err != nil {
			return ErrInvalidData
		}
		argsAsStr = append(argsAsStr, str)
	}

	var query string
	if req.SkipReturn {
		query = fmt.Sprintf("SELECT %s(%s)", req.Script, strings.Join(argsAsStr, ", "))
	} else {
		query = fmt.Sprintf("SELECT * from %s(%s)", req.Script, strings.Join(argsAsStr, ", "))
	}

	_, err := p.dbase.DBExecute(query)
	return formatDBError(err)
}
