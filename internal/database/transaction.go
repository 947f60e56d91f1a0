package database

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	txMaxAttempts = 5
	txBackoffStep = 10 * time.Millisecond
)

// RunInTransaction executes fn inside a database transaction and retries
// it when the commit fails with a transient conflict (serialization
// failure or deadlock). The body may therefore run more than once and
// must be a pure function of its reads: no side effects outside the
// transaction. Only one attempt's effects are ever durably committed.
func (db *DB) RunInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		err = db.DB.WithContext(ctx).Transaction(fn)
		if err == nil || !retryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * txBackoffStep):
		}
	}
	return err
}

// retryable reports whether the error is a transient conflict the store
// resolves by rerunning the transaction. Outages are not retried here;
// they surface to the caller as unavailability.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// IsDuplicateKey reports a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsUnavailable reports whether the error looks like the backing store
// being unreachable rather than a logical failure.
func IsUnavailable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
