package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestRetryable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped serialization failure", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil-ish wrapped", fmt.Errorf("x: %w", errors.New("y")), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryable(tc.err); got != tc.want {
				t.Errorf("retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 should be a duplicate key")
	}
	if !IsDuplicateKey(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("wrapped 23505 should be a duplicate key")
	}
	if IsDuplicateKey(&pgconn.PgError{Code: "40001"}) {
		t.Error("40001 is not a duplicate key")
	}
	if IsDuplicateKey(errors.New("boom")) {
		t.Error("plain error is not a duplicate key")
	}
}
