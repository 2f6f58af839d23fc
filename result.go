package kuzu

import (
	"iter"
	"sync/atomic"
)

// QueryResult is a forward-only cursor over the tuples of one executed
// statement. Advancing it with Next invalidates the previous Row and every
// value borrowed from that row. A QueryResult is not safe for concurrent
// use.
type QueryResult struct {
	engine Engine
	handle Handle
	closed int32

	columns *ColumnIndex
	rows    lifetime
	row     *Row

	// Results of the following statements of a multi-statement query.
	// They are closed together with this result.
	chained []*QueryResult
	owner   *QueryResult
}

func newQueryResult(e Engine, h Handle) *QueryResult {
	return &QueryResult{engine: e, handle: h}
}

func (r *QueryResult) check() error {
	if atomic.LoadInt32(&r.closed) != 0 {
		return ErrResultClosed
	}
	return nil
}

// Columns returns the column index, built on first use.
func (r *QueryResult) Columns() (*ColumnIndex, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if r.columns == nil {
		n := r.engine.ColumnCount(r.handle)
		names := make([]string, n)
		for i := range names {
			name, err := r.engine.ColumnName(r.handle, i)
			if err != nil {
				return nil, &Error{Type: ErrGeneric, Message: "read column name", Cause: err}
			}
			names[i] = name
		}
		r.columns = newColumnIndex(names)
	}
	return r.columns, nil
}

// ColumnNames returns the column names in ordinal order.
func (r *QueryResult) ColumnNames() ([]string, error) {
	ci, err := r.Columns()
	if err != nil {
		return nil, err
	}
	return ci.Names(), nil
}

// TupleCount returns the number of tuples in the result.
func (r *QueryResult) TupleCount() uint64 {
	if r.check() != nil {
		return 0
	}
	return r.engine.TupleCount(r.handle)
}

// HasNext reports whether Next would return a row. It does not move the
// cursor.
func (r *QueryResult) HasNext() bool {
	if r.check() != nil {
		return false
	}
	return r.engine.HasNext(r.handle)
}

// Next advances to the next tuple and returns it as a Row. The previous row
// and the values read from it become unusable.
func (r *QueryResult) Next() (*Row, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	r.releaseRow()
	if !r.engine.HasNext(r.handle) {
		return nil, errorf(ErrOutOfRange, "no more tuples")
	}
	h, err := r.engine.Next(r.handle)
	if err != nil {
		return nil, &Error{Type: ErrExec, Message: "fetch tuple", Cause: err}
	}
	r.row = &Row{result: r, handle: h, lease: r.rows.lease()}
	return r.row, nil
}

// Row returns the current row, or nil before the first Next.
func (r *QueryResult) Row() *Row {
	if r.check() != nil || r.row == nil || r.row.check() != nil {
		return nil
	}
	return r.row
}

// Rows iterates over the remaining tuples. Iteration stops at the first
// error, which is yielded with a nil row.
func (r *QueryResult) Rows() iter.Seq2[*Row, error] {
	return func(yield func(*Row, error) bool) {
		for r.HasNext() {
			row, err := r.Next()
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Reset rewinds the cursor to the first tuple. The current row is
// invalidated. Engines that cannot iterate twice return ErrNotSupported.
func (r *QueryResult) Reset() error {
	if err := r.check(); err != nil {
		return err
	}
	r.releaseRow()
	if err := r.engine.ResetIterator(r.handle); err != nil {
		if IsError(err, ErrNotSupported) {
			return err
		}
		return &Error{Type: ErrNotSupported, Message: "reset query result", Cause: err}
	}
	return nil
}

// HasNextResult reports whether a multi-statement query has a result after
// this one.
func (r *QueryResult) HasNextResult() bool {
	if r.check() != nil {
		return false
	}
	return r.engine.HasNextResult(r.handle)
}

// NextResult returns the result of the next statement of a multi-statement
// query. The returned result is closed when r is.
func (r *QueryResult) NextResult() (*QueryResult, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if !r.engine.HasNextResult(r.handle) {
		return nil, errorf(ErrOutOfRange, "no more query results")
	}
	h, err := r.engine.NextResult(r.handle)
	if err != nil {
		return nil, &Error{Type: ErrExec, Message: "fetch next query result", Cause: err}
	}
	next := newQueryResult(r.engine, h)
	next.owner = r
	r.chained = append(r.chained, next)
	return next, nil
}

// String renders the whole result the way the engine prints it.
func (r *QueryResult) String() string {
	if r.check() != nil {
		return "<closed>"
	}
	return r.engine.ResultString(r.handle)
}

func (r *QueryResult) releaseRow() {
	r.rows.invalidate()
	if r.row != nil {
		r.row.release()
		r.row = nil
	}
}

// Close releases the result, its current row and every chained result.
// Calling Close more than once is a no-op.
func (r *QueryResult) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil
	}
	r.releaseRow()
	for _, c := range r.chained {
		c.Close()
	}
	r.chained = nil
	r.engine.DestroyResult(r.handle)
	return nil
}
