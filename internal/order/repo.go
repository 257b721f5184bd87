package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound reports that no order exists with the requested id.
var ErrNotFound = errors.New("order: not found")

// Repository abstracts order persistence.
type Repository interface {
	Create(ctx context.Context, o Order) error
	List(ctx context.Context, limit, offset int) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresRepository persists orders in Postgres via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a repository over the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, nombre, fecha, dir_salida, dir_destino, hor_ida, hor_regreso,
	duracion, capacidadu, subtotal, descuento, total, abonado, fecha_abono, liquidar, created_at`

func (r *PostgresRepository) Create(ctx context.Context, o Order) error {
	const sql = `
		INSERT INTO orders (
			id, nombre, fecha, dir_salida, dir_destino, hor_ida, hor_regreso,
			duracion, capacidadu, subtotal, descuento, total, abonado,
			fecha_abono, liquidar, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, sql,
		o.ID, o.Nombre, o.Fecha, o.DirSalida, o.DirDestino, o.HorIda, o.HorRegreso,
		o.Duracion, o.Capacidadu, o.Subtotal, o.Descuento, o.Total, o.Abonado,
		o.FechaAbono, o.Liquidar, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]Order, error) {
	sql := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, orderColumns)
	rows, err := r.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	sql := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	o, err := scanOrder(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) Update(ctx context.Context, o Order) error {
	const sql = `
		UPDATE orders SET
			nombre = $2, fecha = $3, dir_salida = $4, dir_destino = $5,
			hor_ida = $6, hor_regreso = $7, duracion = $8, capacidadu = $9,
			subtotal = $10, descuento = $11, total = $12, abonado = $13,
			fecha_abono = $14, liquidar = $15
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, sql,
		o.ID, o.Nombre, o.Fecha, o.DirSalida, o.DirDestino,
		o.HorIda, o.HorRegreso, o.Duracion, o.Capacidadu,
		o.Subtotal, o.Descuento, o.Total, o.Abonado,
		o.FechaAbono, o.Liquidar)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.Nombre, &o.Fecha, &o.DirSalida, &o.DirDestino,
		&o.HorIda, &o.HorRegreso, &o.Duracion, &o.Capacidadu,
		&o.Subtotal, &o.Descuento, &o.Total, &o.Abonado,
		&o.FechaAbono, &o.Liquidar, &o.CreatedAt)
	return o, err
}
