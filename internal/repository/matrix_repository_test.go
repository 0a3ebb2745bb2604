package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWriteErr(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "foreign key", in: &pgconn.PgError{Code: "23503"}, want: ErrNotFound},
		{name: "unique", in: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: ErrDuplicate},
		{name: "other pg error", in: &pgconn.PgError{Code: "23514"}, want: nil},
		{name: "not a pg error", in: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := writeErr(tt.in)
			switch {
			case tt.in == nil:
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
			case tt.want == nil:
				if errors.Is(got, ErrNotFound) || errors.Is(got, ErrDuplicate) {
					t.Fatalf("got %v, want it passed through", got)
				}
			default:
				if !errors.Is(got, tt.want) {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
