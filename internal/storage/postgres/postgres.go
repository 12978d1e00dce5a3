package postgres

import (
	"context"
	"fmt"
	"time"

	"pricetracker/internal/models"
	"pricetracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// historyLimit — сколько последних точек истории отдаётся на товар.
const historyLimit = 30

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: ping failed: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

// * SaveProduct добавляет товар и первую точку истории цены одной транзакцией
func (r *PostgresRepo) SaveProduct(ctx context.Context, p models.Product) (int64, error) {
	const op = "storage.postgres.SaveProduct"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertProduct = `
		INSERT INTO products
			(name, article_number, marketplace, product_url, current_price, target_price, image_url, notifications_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64

	err = tx.QueryRow(ctx, insertProduct,
		p.Name,
		p.ArticleNumber,
		p.Marketplace,
		p.ProductURL,
		p.CurrentPrice,
		p.TargetPrice,
		p.ImageURL,
		p.Notifications,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: insert product: %w", op, err)
	}

	const insertHistory = `
		INSERT INTO price_history (product_id, price, checked_at)
		VALUES ($1, $2, now())
	`

	if _, err := tx.Exec(ctx, insertHistory, id, p.CurrentPrice); err != nil {
		return 0, fmt.Errorf("%s: insert history: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, nil
}

// * Products возвращает все товары с последними точками истории цены,
// * новые товары первыми
func (r *PostgresRepo) Products(ctx context.Context) ([]models.Product, error) {
	const op = "storage.postgres.Products"

	// * Начинаем read-only транзакцию
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
		SELECT id, name, article_number, marketplace, product_url,
			current_price, target_price, image_url, notifications_enabled
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	var products []models.Product

	for rows.Next() {
		var p models.Product

		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.ArticleNumber,
			&p.Marketplace,
			&p.ProductURL,
			&p.CurrentPrice,
			&p.TargetPrice,
			&p.ImageURL,
			&p.Notifications,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: scan product: %w", op, err)
		}

		products = append(products, p)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	for i := range products {
		history, err := r.productHistory(ctx, tx, products[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		products[i].PriceHistory = history
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return products, nil
}

type historyRow struct {
	price     int
	checkedAt time.Time
}

func (r *PostgresRepo) productHistory(ctx context.Context, tx pgx.Tx, productID int64) ([]models.PricePoint, error) {
	const op = "storage.postgres.productHistory"

	const query = `
		SELECT price, checked_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY checked_at DESC
		LIMIT $2
	`

	rows, err := tx.Query(ctx, query, productID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var history []historyRow

	for rows.Next() {
		var h historyRow

		if err := rows.Scan(&h.price, &h.checkedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return formatHistory(history), nil
}

// formatHistory переводит выборку "новые первыми" в хронологический
// порядок и рендерит даты как "день.месяц".
func formatHistory(rows []historyRow) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(rows))

	for i := len(rows) - 1; i >= 0; i-- {
		points = append(points, models.PricePoint{
			Date:  rows[i].checkedAt.Format("02.01"),
			Price: rows[i].price,
		})
	}

	return points
}

// * UpdateProduct меняет целевую цену и флаг уведомлений; nil оставляет
// * поле без изменений. Остальные поля товара через эту операцию неизменяемы.
func (r *PostgresRepo) UpdateProduct(ctx context.Context, productID int64, targetPrice *int, notifications *bool) error {
	const op = "storage.postgres.UpdateProduct"

	const query = `
		UPDATE products
		SET target_price = COALESCE($1, target_price),
			notifications_enabled = COALESCE($2, notifications_enabled),
			updated_at = now()
		WHERE id = $3
	`

	cmd, err := r.pool.Exec(ctx, query, targetPrice, notifications, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

// * DeleteProduct удаляет товар вместе с историей цен одной транзакцией.
// * Удаление несуществующего товара не ошибка.
func (r *PostgresRepo) DeleteProduct(ctx context.Context, productID int64) error {
	const op = "storage.postgres.DeleteProduct"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM price_history WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("%s: delete history: %w", op, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID); err != nil {
		return fmt.Errorf("%s: delete product: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// * Close закрывает соединение с базой данных.
func (r *PostgresRepo) Close() {
	r.pool.Close()
}
