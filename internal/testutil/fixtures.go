package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Fixtures loads generated hierarchies into the tree table using
// PostgreSQL COPY FROM.
type Fixtures struct {
	db  *sql.DB
	ctx context.Context
}

// NewFixtures creates a Fixtures instance for the given database.
func NewFixtures(ctx context.Context, db *sql.DB) *Fixtures {
	return &Fixtures{db: db, ctx: ctx}
}

// CreateTree fills the tree table with a complete tree of the given depth in
// which every node has fanout children. Node 1 is the root; nodes are named
// n<id>. It returns the number of rows loaded.
func (f *Fixtures) CreateTree(depth, fanout int) (int, error) {
	if depth < 1 || fanout < 1 {
		return 0, fmt.Errorf("tree needs depth and fanout of at least 1, got %d and %d", depth, fanout)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "1\t\\N\tn1\n")
	next, level := 2, []int{1}
	for d := 1; d < depth; d++ {
		var children []int
		for _, parent := range level {
			for range fanout {
				fmt.Fprintf(&buf, "%d\t%d\tn%d\n", next, parent, next)
				children = append(children, next)
				next++
			}
		}
		level = children
	}

	if err := f.copyFrom("tree", []string{"id", "parent_id", "name"}, &buf); err != nil {
		return 0, err
	}
	return next - 1, nil
}

// copyFrom executes a COPY FROM operation using the pgx driver.
// data should be a tab-delimited text stream (one row per line).
func (f *Fixtures) copyFrom(table string, columns []string, data io.Reader) error {
	conn, err := f.db.Conn(f.ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	// Access the underlying pgx connection through stdlib wrapper
	var pgxConn *pgx.Conn
	err = conn.Raw(func(driverConn any) error {
		if stdlibConn, ok := driverConn.(*stdlib.Conn); ok {
			pgxConn = stdlibConn.Conn()
			return nil
		}
		return fmt.Errorf("not a pgx connection (got %T)", driverConn)
	})
	if err != nil {
		return fmt.Errorf("access pgx connection: %w", err)
	}

	query := fmt.Sprintf("COPY %s (%s) FROM STDIN WITH (FORMAT text)", table, joinColumns(columns))
	if _, err := pgxConn.PgConn().CopyFrom(f.ctx, data, query); err != nil {
		return fmt.Errorf("COPY FROM: %w", err)
	}
	return nil
}

// joinColumns joins column names with commas.
func joinColumns(cols []string) string {
	var b bytes.Buffer
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
	}
	return b.String()
}
