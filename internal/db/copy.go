package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const copyBufferSize = 1024

// Row is anything that can render itself as COPY values.
type Row interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel.
// Every row is prefixed with the fixed values given at construction (run id,
// model name).
type ChannelSource[R Row] struct {
	ch      <-chan R
	prefix  []any
	current R
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[R Row](ch <-chan R, prefix ...any) *ChannelSource[R] {
	return &ChannelSource[R]{ch: ch, prefix: prefix}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[R]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the prefix followed by the current row's values.
func (s *ChannelSource[R]) Values() ([]any, error) {
	vals := s.current.CopyValues()
	out := make([]any, 0, len(s.prefix)+len(vals))
	out = append(out, s.prefix...)
	return append(out, vals...), nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource[R]) Err() error {
	return s.err
}

// copyRows streams rows into table through a ChannelSource fed by a producer
// goroutine.
func copyRows[R Row](ctx context.Context, pool *pgxpool.Pool, table pgx.Identifier, columns []string, rows []R, prefix ...any) (int64, error) {
	ch := make(chan R, copyBufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	n, err := pool.CopyFrom(ctx, table, columns, NewChannelSource[R](ch, prefix...))
	if err != nil {
		// drain so the producer can exit
		for range ch {
		}
	}

	if prodErr := <-errCh; prodErr != nil {
		return 0, fmt.Errorf("copy producer: %w", prodErr)
	}
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", table.Sanitize(), err)
	}
	return n, nil
}
