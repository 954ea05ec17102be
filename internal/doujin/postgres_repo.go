package doujin

import (
	"context"
	"errors"
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

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Doujinshi, error) {
	sql, args := buildListQuery(q)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Doujinshi{}
	for rows.Next() {
		var d Doujinshi
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Circle, &d.Authors, &d.Genres,
			&d.PublishedDate, &d.ThumbnailURL, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ensureArrays(&d)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Doujinshi, error) {
	const query = `
		SELECT id, title, circle, authors, genres,
		       to_char(published_date, 'YYYY-MM-DD') AS published_date,
		       thumbnail_url, created_at, updated_at
		FROM doujinshi
		WHERE id = $1`

	var d Doujinshi
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&d.ID, &d.Title, &d.Circle, &d.Authors, &d.Genres,
		&d.PublishedDate, &d.ThumbnailURL, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Doujinshi{}, ErrNotFound
		}
		return Doujinshi{}, err
	}
	ensureArrays(&d)
	return d, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, d *Doujinshi) error {
	const sql = `
		INSERT INTO doujinshi (id, title, circle, authors, genres, published_date, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, NOW(), NOW())
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql,
		d.ID, d.Title, d.Circle, d.Authors, d.Genres, d.PublishedDate, d.ThumbnailURL,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, d *Doujinshi) error {
	const sql = `
		UPDATE doujinshi SET
			title = $2,
			circle = $3,
			authors = $4,
			genres = $5,
			published_date = $6::date,
			thumbnail_url = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		d.ID, d.Title, d.Circle, d.Authors, d.Genres, d.PublishedDate, d.ThumbnailURL,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteMany removes all rows matching ids. Unknown ids are ignored.
func (r *PostgresRepo) DeleteMany(ctx context.Context, ids []string) error {
	const sql = `DELETE FROM doujinshi WHERE id = ANY($1)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, ids)
	return err
}

func (r *PostgresRepo) ListCircles(ctx context.Context) ([]CircleCount, error) {
	const query = `
		SELECT circle, COUNT(*)
		FROM doujinshi
		WHERE circle IS NOT NULL AND circle <> ''
		GROUP BY circle
		ORDER BY circle ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CircleCount{}
	for rows.Next() {
		var c CircleCount
		if err := rows.Scan(&c.Circle, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListAuthors(ctx context.Context) ([]AuthorCount, error) {
	const query = `
		SELECT author, COUNT(*)
		FROM doujinshi, unnest(authors) AS author
		GROUP BY author
		ORDER BY author ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AuthorCount{}
	for rows.Next() {
		var a AuthorCount
		if err := rows.Scan(&a.Author, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ensureArrays keeps authors/genres non-nil so they serialize as [].
func ensureArrays(d *Doujinshi) {
	if d.Authors == nil {
		d.Authors = []string{}
	}
	if d.Genres == nil {
		d.Genres = []string{}
	}
}
