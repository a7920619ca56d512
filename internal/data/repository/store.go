package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/database"
	"support-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
)

// changeSet is the column/value list of a sparse write.
type changeSet struct {
	columns []string
	values  []any
}

func (c *changeSet) set(column string, value any) {
	c.columns = append(c.columns, column)
	c.values = append(c.values, value)
}

func (c *changeSet) empty() bool {
	return len(c.columns) == 0
}

func setPtr[T any](c *changeSet, column string, p *T) {
	if p != nil {
		c.set(column, *p)
	}
}

func setOptional[T any](c *changeSet, column string, o entity.Optional[T]) {
	if !o.Set {
		return
	}
	if o.Valid {
		c.set(column, o.Value)
		return
	}
	c.set(column, nil)
}

// maxPrealloc bounds the capacity reserved for a page before any row arrives.
const maxPrealloc = 100

// view describes the joined projection an entity is read from.
type view struct {
	name    string
	columns string
	orderBy string
}

func findAll[E any](
	ctx context.Context,
	db database.PgxIface,
	v view,
	q *ListQuery,
	w utils.Window,
	scan func(pgx.Row) (E, error),
) ([]E, int64, error) {
	items := make([]E, 0, min(w.Limit(), maxPrealloc))
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sql, args := q.CountSQL(v.name)
		if err := db.QueryRow(gctx, sql, args...).Scan(&total); err != nil {
			return fmt.Errorf("count %s: %w", v.name, err)
		}
		return nil
	})
	g.Go(func() error {
		sql, args := q.SelectSQL(v.columns, v.name, v.orderBy, w)
		rows, err := db.Query(gctx, sql, args...)
		if err != nil {
			return fmt.Errorf("query %s: %w", v.name, err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return fmt.Errorf("scan %s row: %w", v.name, err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func findByID[E any](
	ctx context.Context,
	db database.PgxIface,
	v view,
	id uuid.UUID,
	scan func(pgx.Row) (E, error),
) (E, error) {
	query := "SELECT " + v.columns + " FROM " + v.name + " WHERE id = $1"
	return scan(db.QueryRow(ctx, query, id))
}

func insertRow(ctx context.Context, db database.PgxIface, table string, c *changeSet) (uuid.UUID, error) {
	var query string
	if c.empty() {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING id", table)
	} else {
		placeholders := make([]string, len(c.columns))
		for i := range c.columns {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			table, strings.Join(c.columns, ", "), strings.Join(placeholders, ", "))
	}

	var id uuid.UUID
	if err := db.QueryRow(ctx, query, c.values...).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// updateRow writes the present columns and always bumps updated_at. It
// reports whether a row matched.
func updateRow(ctx context.Context, db database.PgxIface, table, key string, id uuid.UUID, c *changeSet) (bool, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET ", table)
	for i, column := range c.columns {
		fmt.Fprintf(&sb, "%s = $%d, ", column, i+1)
	}
	args := append(slices.Clone(c.values), id)
	fmt.Fprintf(&sb, "updated_at = NOW() WHERE %s = $%d", key, len(args))

	tag, err := db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// deleteRow is a hard delete; a missing row is not an error.
func deleteRow(ctx context.Context, db database.PgxIface, table string, id uuid.UUID) error {
	_, err := db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	return err
}

// reread returns the joined projection of a row just written. A miss is
// retried once before it is reported as not found.
func reread[E any](ctx context.Context, what string, id uuid.UUID, find func(context.Context, uuid.UUID) (E, error)) (E, error) {
	item, err := find(ctx, id)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		item, err = find(ctx, id)
	}
	if apperr.HasCode(err, apperr.CodeNotFound) {
		var zero E
		return zero, apperr.Newf(apperr.CodeNotFound, "%s %s not found after write", what, id)
	}
	return item, err
}

// storeError classifies a driver error. Constraint violations are caller
// mistakes; everything else is a backend failure.
func storeError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(what)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.Wrap(err, apperr.CodeValidation, what+" already exists")
		case "23503":
			return apperr.Wrap(err, apperr.CodeValidation, what+" references a missing record")
		case "23502", "23514", "22P02":
			return apperr.Wrap(err, apperr.CodeValidation, "invalid "+what)
		}
	}
	return apperr.Wrap(err, apperr.CodeBackend, what)
}

func unconfigured() error {
	return apperr.Unconfigured("directory store")
}
