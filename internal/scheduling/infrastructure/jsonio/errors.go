package jsonio

import (
	"fmt"
	"strings"
)

// RecordError names the offending record and field within a loaded file, per
// the load-time validation regime: every bad record is collected and
// reported, rather than aborting on the first one.
type RecordError struct {
	File   string
	Index  int
	ID     string
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: record %s: field %q: %v", e.File, id, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: record %s: %v", e.File, id, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// LoadErrors aggregates every RecordError found in a single file load. A
// non-empty LoadErrors means the file was rejected wholesale: the loader
// never returns a partially-valid entity set.
type LoadErrors struct {
	Errors []*RecordError
}

func (e *LoadErrors) add(file string, index int, id, field string, err error) {
	e.Errors = append(e.Errors, &RecordError{File: file, Index: index, ID: id, Field: field, Err: err})
}

func (e *LoadErrors) ok() bool { return len(e.Errors) == 0 }

func (e *LoadErrors) Error() string {
	lines := make([]string, len(e.Errors))
	for i, re := range e.Errors {
		lines[i] = re.Error()
	}
	return fmt.Sprintf("%d validation error(s):\n%s", len(e.Errors), strings.Join(lines, "\n"))
}
