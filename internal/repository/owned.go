package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// Schema describes how one entity maps onto its table: the data columns
// (excluding id, owner and timestamps), how to pull their values out of a
// struct in column order, and how to scan a full row back. Every table
// managed by Owned has an auto-increment id, an owner column and
// created_at/updated_at timestamps.
type Schema[T any] struct {
	Table    string
	OwnerCol string
	Cols     []string
	Values   func(*T) []any
	Scan     func(RowScanner) (*T, error)
}

// Cond is a single exact-match filter condition applied to a list query.
type Cond struct {
	Col string
	Val any
}

// Filter is an ordered set of conditions; order matters only for stable SQL.
type Filter []Cond

// Owned is the generic ownership-scoped repository. Every query it issues
// filters by the owner column; there is no way to reach a row through its
// id alone. One instance is created per entity with that entity's schema
// and fixed page size.
type Owned[T any] struct {
	db       *sql.DB
	s        Schema[T]
	PageSize int
}

// NewOwned constructs the repository for one entity schema.
func NewOwned[T any](db *sql.DB, s Schema[T], pageSize int) *Owned[T] {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Owned[T]{db: db, s: s, PageSize: pageSize}
}

// selectList returns the full column list read by get/list queries.
func (r *Owned[T]) selectList() string {
	cols := append([]string{"id", r.s.OwnerCol}, r.s.Cols...)
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

// ListByOwner returns one page of the owner's rows plus the total count
// for the same filter, newest first.
func (r *Owned[T]) ListByOwner(ctx context.Context, ownerID uint64, f Filter, page int) ([]*T, int64, error) {
	if page < 1 {
		page = 1
	}
	where := []string{r.s.OwnerCol + " = ?"}
	args := []any{ownerID}
	for _, c := range f {
		where = append(where, c.Col+" = ?")
		args = append(args, c.Val)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.s.Table, cond)
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?",
		r.selectList(), r.s.Table, cond)
	args = append(args, r.PageSize, (page-1)*r.PageSize)

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*T, 0, r.PageSize)
	for rows.Next() {
		t, err := r.s.Scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByIDForOwner fetches one row by id, scoped to the owner. Rows owned
// by other users yield ErrNotFound.
func (r *Owned[T]) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (*T, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND %s = ?",
		r.selectList(), r.s.Table, r.s.OwnerCol)
	t, err := r.s.Scan(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Insert writes a new row for the owner and returns the generated id.
// Callers must have verified any parent references (farm, animal) belong
// to the same owner before calling.
func (r *Owned[T]) Insert(ctx context.Context, ownerID uint64, t *T) (uint64, error) {
	cols := append([]string{r.s.OwnerCol}, r.s.Cols...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.s.Table, strings.Join(cols, ", "), placeholders)
	args := append([]any{ownerID}, r.s.Values(t)...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the data columns of the owner's row and returns the
// affected count. Zero is not an error: the row may not exist for this
// owner, or the submitted values may equal the stored ones. Callers decide
// how to report a no-op.
func (r *Owned[T]) Update(ctx context.Context, id, ownerID uint64, t *T) (int64, error) {
	sets := make([]string, 0, len(r.s.Cols)+1)
	for _, c := range r.s.Cols {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? AND %s = ?",
		r.s.Table, strings.Join(sets, ", "), r.s.OwnerCol)
	args := append(r.s.Values(t), id, ownerID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the owner's row, returning ErrNotFound when nothing
// matched.
func (r *Owned[T]) Delete(ctx context.Context, id, ownerID uint64) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND %s = ?", r.s.Table, r.s.OwnerCol)
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
