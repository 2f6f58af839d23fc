package kuzu

import (
	"sync"
	"sync/atomic"
)

// Transaction is an explicit transaction on a connection. Statements run on
// the connection while it is open belong to it.
type Transaction struct {
	conn     *Connection
	finished atomic.Bool
	mu       sync.Mutex
}

// Begin starts a transaction.
func (c *Connection) Begin() (*Transaction, error) {
	if err := c.Exec("BEGIN TRANSACTION"); err != nil {
		return nil, &Error{Type: ErrTransaction, Message: "begin", Cause: err}
	}
	return &Transaction{conn: c}, nil
}

// Transact runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise. A panic in fn rolls back and is re-raised.
func (c *Connection) Transact(fn func(tx *Transaction) error) error {
	tx, err := c.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Connection returns the connection the transaction runs on.
func (tx *Transaction) Connection() *Connection {
	return tx.conn
}

// Query runs query inside the transaction.
func (tx *Transaction) Query(query string, params ...any) (*QueryResult, error) {
	if tx.finished.Load() {
		return nil, NewError(ErrTransaction, "transaction already finished")
	}
	return tx.conn.Query(query, params...)
}

// Exec runs a statement inside the transaction.
func (tx *Transaction) Exec(query string, params ...any) error {
	if tx.finished.Load() {
		return NewError(ErrTransaction, "transaction already finished")
	}
	return tx.conn.Exec(query, params...)
}

// Commit commits the transaction. Once the transaction has finished,
// further calls are no-ops.
func (tx *Transaction) Commit() error {
	return tx.finish("COMMIT")
}

// Rollback aborts the transaction. Once the transaction has finished,
// further calls are no-ops.
func (tx *Transaction) Rollback() error {
	return tx.finish("ROLLBACK")
}

func (tx *Transaction) finish(stmt string) error {
	// Ensure we only finish the transaction once
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.finished.Load() {
		return nil
	}
	tx.finished.Store(true)
	if err := tx.conn.Exec(stmt); err != nil {
		return &Error{Type: ErrTransaction, Message: stmt, Cause: err}
	}
	return nil
}
