package book

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// ListSummaries returns one page of listing rows and the number of rows the
// predicate matches in total.
func (r *PostgresRepo) ListSummaries(ctx context.Context, p Predicate, order Order, limit, offset int) ([]Summary, int, error) {
	var out []Summary
	total, err := r.page(ctx, p, order, limit, offset, summaryColumns, func(rows pgx.Rows) error {
		var s Summary
		if err := rows.Scan(s.scanTargets()...); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// List is ListSummaries with the full record projection.
func (r *PostgresRepo) List(ctx context.Context, p Predicate, order Order, limit, offset int) ([]Book, int, error) {
	var out []Book
	total, err := r.page(ctx, p, order, limit, offset, allColumns, func(rows pgx.Rows) error {
		var b Book
		if err := rows.Scan(b.scanTargets()...); err != nil {
			return err
		}
		out = append(out, b)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// page runs the count and data queries for the same predicate inside one
// read-only snapshot, so the total always describes the rows returned.
func (r *PostgresRepo) page(ctx context.Context, p Predicate, order Order, limit, offset int, projection string, scan func(pgx.Rows) error) (int, error) {
	orderBy, err := order.clause()
	if err != nil {
		return 0, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	countSQL := "SELECT COUNT(*) FROM books " + p.Where()
	var total int
	if err := tx.QueryRow(timeoutCtx, countSQL, p.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}

	n := p.Next()
	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		projection, p.Where(), orderBy, n, n+1)

	args := append(p.Args(), limit, offset)
	rows, err := tx.Query(timeoutCtx, dataSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return 0, fmt.Errorf("scan book: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return total, tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	query := "SELECT " + allColumns + " FROM books WHERE id = $1"

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(b.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// DistinctTags returns every category and genre tag across the whole table,
// sorted. It never takes a filter.
func (r *PostgresRepo) DistinctTags(ctx context.Context) ([]string, []string, error) {
	const query = `
	SELECT DISTINCT 'category'::text, category FROM books WHERE category IS NOT NULL
	UNION
	SELECT DISTINCT 'genre'::text, genre FROM books WHERE genre IS NOT NULL
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("distinct tags: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]struct{})
	genres := make(map[string]struct{})
	for rows.Next() {
		var kind, raw string
		if err := rows.Scan(&kind, &raw); err != nil {
			return nil, nil, err
		}
		set := categories
		if kind == "genre" {
			set = genres
		}
		for _, tag := range SplitTags(raw) {
			set[tag] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return sortedKeys(categories), sortedKeys(genres), nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Insert stores a new book and returns its id.
func (r *PostgresRepo) Insert(ctx context.Context, values []Assignment) (int64, error) {
	cols, args, err := splitAssignments(values)
	if err != nil {
		return 0, err
	}

	var query string
	if len(cols) == 0 {
		query = "INSERT INTO books DEFAULT VALUES RETURNING id"
	} else {
		placeholders := make([]string, len(cols))
		for i := range cols {
			placeholders[i] = "$" + strconv.Itoa(i+1)
		}
		query = "INSERT INTO books (" + strings.Join(cols, ", ") + ") VALUES (" +
			strings.Join(placeholders, ", ") + ") RETURNING id"
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(timeoutCtx)

	var id int64
	if err := tx.QueryRow(timeoutCtx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return id, tx.Commit(timeoutCtx)
}

// Update writes exactly the given columns; columns not listed keep their
// stored value.
func (r *PostgresRepo) Update(ctx context.Context, id int64, values []Assignment) error {
	query, args, err := updateStatement(id, values)
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	tag, err := tx.Exec(timeoutCtx, query, args...)
	if err != nil {
		return fmt.Errorf("update book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(timeoutCtx)
}

func updateStatement(id int64, values []Assignment) (string, []any, error) {
	cols, args, err := splitAssignments(values)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, errors.New("update needs at least one column")
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = $" + strconv.Itoa(i+1)
	}
	args = append(args, id)
	query := "UPDATE books SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	return query, args, nil
}

// Delete removes the book. Deleting an id that does not exist is not an error.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM books WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, id)
	return err
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&n)
	return n, err
}

func splitAssignments(values []Assignment) ([]string, []any, error) {
	cols := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if _, ok := LookupColumn(v.Column); !ok {
			return nil, nil, fmt.Errorf("unknown books column %q", v.Column)
		}
		if seen[v.Column] {
			return nil, nil, fmt.Errorf("column %q assigned twice", v.Column)
		}
		seen[v.Column] = true
		cols = append(cols, v.Column)
		args = append(args, v.Value)
	}
	return cols, args, nil
}
