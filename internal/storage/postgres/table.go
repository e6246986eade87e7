package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/storage"
)

// table — общий CRUD над одной таблицей справочника.
// Строки читаются в T по тегам db, поэтому cols должны совпадать с ними.
type table[T any, P any] struct {
	db    *pgxpool.Pool
	name  string
	idCol string
	// cols — все колонки в порядке SELECT, включая idCol.
	cols []string
	// insertCols и values описывают INSERT без первичного ключа.
	insertCols []string
	values     func(T) []any
	// patch возвращает только заданные колонки и их значения.
	patch func(P) ([]string, []any)
}

func (t *table[T, P]) selectSQL() string {
	return "SELECT " + strings.Join(t.cols, ", ") + " FROM " + t.name
}

func (t *table[T, P]) insertSQL() string {
	ph := make([]string, len(t.insertCols))
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.name, strings.Join(t.insertCols, ", "), strings.Join(ph, ", "), strings.Join(t.cols, ", "))
}

// List возвращает страницу записей по возрастанию первичного ключа.
func (t *table[T, P]) List(ctx context.Context, skip, limit int) ([]T, error) {
	const op = "storage.postgres.List"

	query := t.selectSQL() + " ORDER BY " + t.idCol + " OFFSET $1 LIMIT $2"

	return t.collect(ctx, op, query, skip, limit)
}

// ByID находит запись по первичному ключу.
func (t *table[T, P]) ByID(ctx context.Context, id int64) (*T, error) {
	const op = "storage.postgres.ByID"

	rows, err := t.db.Query(ctx, t.selectSQL()+" WHERE "+t.idCol+" = $1", id)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, err)
	}

	return t.one(op, rows)
}

// Create вставляет запись и возвращает её вместе с присвоенным ключом.
func (t *table[T, P]) Create(ctx context.Context, item T) (*T, error) {
	const op = "storage.postgres.Create"

	rows, err := t.db.Query(ctx, t.insertSQL(), t.values(item)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, writeErr(err))
	}

	return t.one(op, rows)
}

// CreateBulk вставляет записи одним батчем внутри транзакции:
// либо сохраняются все, либо ни одной.
func (t *table[T, P]) CreateBulk(ctx context.Context, items []T) ([]T, error) {
	const op = "storage.postgres.CreateBulk"

	if len(items) == 0 {
		return []T{}, nil
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := t.insertSQL()
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, t.values(item)...)
	}

	br := tx.SendBatch(ctx, batch)
	created := make([]T, 0, len(items))
	for i := 0; i < batch.Len(); i++ {
		rows, err := br.Query()
		if err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("%s: %s: batch item %d: %w", op, t.name, i, writeErr(err))
		}

		item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
		if err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("%s: %s: batch item %d: %w", op, t.name, i, writeErr(err))
		}
		created = append(created, item)
	}

	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, writeErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, err)
	}

	return created, nil
}

// Update меняет заданные в patch поля. Пустой patch равносилен ByID.
func (t *table[T, P]) Update(ctx context.Context, id int64, patch P) (*T, error) {
	const op = "storage.postgres.Update"

	cols, args := t.patch(patch)
	if len(cols) == 0 {
		return t.ByID(ctx, id)
	}

	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		t.name, strings.Join(set, ", "), t.idCol, len(args), strings.Join(t.cols, ", "))

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, writeErr(err))
	}

	return t.one(op, rows)
}

// Delete удаляет запись; storage.ErrInUse, если на неё есть ссылки.
func (t *table[T, P]) Delete(ctx context.Context, id int64) error {
	const op = "storage.postgres.Delete"

	tag, err := t.db.Exec(ctx, "DELETE FROM "+t.name+" WHERE "+t.idCol+" = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %s: %w", op, t.name, storage.ErrInUse)
		}

		return fmt.Errorf("%s: %s: %w", op, t.name, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %s: %w", op, t.name, storage.ErrNotFound)
	}

	return nil
}

// where выбирает записи по условию, упорядочивая по первичному ключу.
func (t *table[T, P]) where(ctx context.Context, op, cond string, args ...any) ([]T, error) {
	return t.collect(ctx, op, t.selectSQL()+" WHERE "+cond+" ORDER BY "+t.idCol, args...)
}

func (t *table[T, P]) collect(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, t.name, err)
	}

	return items, nil
}

func (t *table[T, P]) one(op string, rows pgx.Rows) (*T, error) {
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %s: %w", op, t.name, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %s: %w", op, t.name, writeErr(err))
	}

	return &item, nil
}

// counts выполняет группировку вида (key text, count bigint).
func counts(ctx context.Context, db *pgxpool.Pool, op, query string, args ...any) (storage.Counts, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := storage.Counts{}
	var (
		key string
		n   int64
	)
	_, err = pgx.ForEachRow(rows, []any{&key, &n}, func() error {
		out[key] = n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// texts читает одну текстовую колонку.
func texts(ctx context.Context, db *pgxpool.Pool, op, query string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// scalar читает одно целое значение.
func scalar(ctx context.Context, db *pgxpool.Pool, op, query string, args ...any) (int64, error) {
	var n int64
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// writeErr переводит нарушение внешнего ключа при записи в storage.ErrInvalidReference.
func writeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return storage.ErrInvalidReference
	}

	return err
}

// patchSet собирает колонки патча, пропуская nil-поля.
type patchSet struct {
	cols []string
	args []any
}

func (p *patchSet) result() ([]string, []any) { return p.cols, p.args }

func setIf[V any](p *patchSet, col string, v *V) {
	if v != nil {
		p.cols = append(p.cols, col)
		p.args = append(p.args, *v)
	}
}
