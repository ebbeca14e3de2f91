// Package store is the keyed entity store shared by every service: lookups by
// id or unique field, filtered listing and partial updates over GORM, with
// driver errors mapped onto apperr kinds.
package store

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant_pos/internal/apperr"
)

// Filters are equality conditions keyed by column name. Nil values are skipped.
type Filters map[string]any

// Page bounds a listing. Limit <= 0 means no limit.
type Page struct {
	Skip  int
	Limit int
}

type Repo[T any] struct {
	db   *gorm.DB
	name string
}

// NewRepo returns a store for T; name is used in error messages ("order 4 not found").
func NewRepo[T any](db *gorm.DB, name string) *Repo[T] {
	return &Repo[T]{db: db, name: name}
}

// WithTx returns a copy of the repo bound to an open transaction.
func (r *Repo[T]) WithTx(tx *gorm.DB) *Repo[T] {
	return &Repo[T]{db: tx, name: r.name}
}

func (r *Repo[T]) Name() string { return r.name }

func (r *Repo[T]) Get(ctx context.Context, id uint) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, r.translate(err, "%s %d not found", r.name, id)
	}
	return &rec, nil
}

// GetByField looks a record up by a unique column.
func (r *Repo[T]) GetByField(ctx context.Context, column string, value any) (*T, error) {
	var rec T
	err := r.db.WithContext(ctx).Where(map[string]any{column: value}).First(&rec).Error
	if err != nil {
		return nil, r.translate(err, "%s with %s %v not found", r.name, column, value)
	}
	return &rec, nil
}

func (r *Repo[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	var rec T
	if err := r.db.WithContext(ctx).Model(&rec).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, r.translate(err, "checking %s %d", r.name, id)
	}
	return n > 0, nil
}

// List returns records matching filters, ordered by orderBy ("id" when empty).
func (r *Repo[T]) List(ctx context.Context, filters Filters, orderBy string, page Page) ([]T, error) {
	if orderBy == "" {
		orderBy = "id"
	}
	q := filters.apply(r.db.WithContext(ctx)).Order(orderBy)
	q = page.apply(q)

	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, r.translate(err, "listing %s", r.name)
	}
	return out, nil
}

func (r *Repo[T]) Count(ctx context.Context, filters Filters) (int64, error) {
	var n int64
	var rec T
	if err := filters.apply(r.db.WithContext(ctx).Model(&rec)).Count(&n).Error; err != nil {
		return 0, r.translate(err, "counting %s", r.name)
	}
	return n, nil
}

func (r *Repo[T]) Insert(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return r.translate(err, "creating %s", r.name)
	}
	return nil
}

// Update applies a partial update and returns the stored record.
func (r *Repo[T]) Update(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return rec, nil
	}
	if err := r.db.WithContext(ctx).Model(rec).Omit(clause.Associations).Updates(fields).Error; err != nil {
		return nil, r.translate(err, "updating %s %d", r.name, id)
	}
	return r.Get(ctx, id)
}

// Delete removes the record and returns what was stored.
func (r *Repo[T]) Delete(ctx context.Context, id uint) (*T, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(rec).Error; err != nil {
		return nil, r.translate(err, "deleting %s %d", r.name, id)
	}
	return rec, nil
}

func (r *Repo[T]) translate(err error, format string, args ...any) error {
	return Translate(err, format, args...)
}

// Translate maps a GORM or driver error onto an apperr kind. Errors that
// already carry a kind pass through untouched.
func Translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundf(format, args...)
	case IsUniqueViolation(err):
		return apperr.Wrap(apperr.Conflict, err, format, args...)
	default:
		return apperr.Wrap(apperr.Internal, err, format, args...)
	}
}

// IsUniqueViolation recognises duplicate keys from every supported driver.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Tx runs fn inside a transaction; any error rolls it back.
func Tx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err != nil {
		return Translate(err, "transaction failed")
	}
	return nil
}

// LockByID loads a row with SELECT ... FOR UPDATE. Dialects without row locks
// (SQLite) drop the clause and rely on the database-wide write lock.
func LockByID[T any](tx *gorm.DB, id uint, name string) (*T, error) {
	var rec T
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, id).Error; err != nil {
		return nil, Translate(err, "%s %d not found", name, id)
	}
	return &rec, nil
}

func (f Filters) clean() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		if v == nil {
			continue
		}
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			v = rv.Elem().Interface()
		}
		out[k] = v
	}
	return out
}

func (f Filters) apply(q *gorm.DB) *gorm.DB {
	if conds := f.clean(); len(conds) > 0 {
		return q.Where(conds)
	}
	return q
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Skip > 0 {
		q = q.Offset(p.Skip)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}

// Paginate applies p to an arbitrary query.
func Paginate(q *gorm.DB, p Page) *gorm.DB { return p.apply(q) }
