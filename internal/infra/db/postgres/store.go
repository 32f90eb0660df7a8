package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vasavi/quotation/internal/domain/quote"
)

const pgErrUniqueViolation = "23505"

var _ quote.Store = (*DB)(nil)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (db *DB) EnsureCompany(ctx context.Context, def quote.Company) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO company (id, name, address_line_1, state, gstin, phone)
		VALUES (1, $1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
		def.Name, def.AddressLine1, def.State, def.GSTIN, def.Phone)
	if err != nil {
		return fmt.Errorf("seeding company: %w", err)
	}
	return nil
}

func (db *DB) Company(ctx context.Context) (quote.Company, error) {
	var c quote.Company
	err := db.Pool.QueryRow(ctx,
		`SELECT name, address_line_1, state, gstin, phone FROM company WHERE id = 1`).
		Scan(&c.Name, &c.AddressLine1, &c.State, &c.GSTIN, &c.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, fmt.Errorf("company: %w", quote.ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("loading company: %w", err)
	}
	return c, nil
}

func (db *DB) SaveCompany(ctx context.Context, c quote.Company) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO company (id, name, address_line_1, state, gstin, phone)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address_line_1 = EXCLUDED.address_line_1,
			state = EXCLUDED.state, gstin = EXCLUDED.gstin, phone = EXCLUDED.phone`,
		c.Name, c.AddressLine1, c.State, c.GSTIN, c.Phone)
	if err != nil {
		return fmt.Errorf("saving company: %w", err)
	}
	return nil
}

func (db *DB) SearchCustomers(ctx context.Context, q string, limit int) ([]quote.Customer, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return db.queryCustomers(ctx, `SELECT id, name, address, gstin, state FROM customers
			ORDER BY name, id LIMIT $1`, limit)
	}
	return db.queryCustomers(ctx, `SELECT id, name, address, gstin, state FROM customers
		WHERE name ILIKE '%' || $1::text || '%'
		ORDER BY name, id LIMIT $2`, escapeLike(q), limit)
}

func (db *DB) ListCustomers(ctx context.Context) ([]quote.Customer, error) {
	return db.queryCustomers(ctx, `SELECT id, name, address, gstin, state FROM customers ORDER BY name, id`)
}

func (db *DB) queryCustomers(ctx context.Context, sql string, args ...any) ([]quote.Customer, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	out := []quote.Customer{}
	for rows.Next() {
		var c quote.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.GSTIN, &c.State); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) GetCustomer(ctx context.Context, id int64) (quote.Customer, error) {
	c := quote.Customer{ID: id}
	err := db.Pool.QueryRow(ctx, `SELECT name, address, gstin, state FROM customers WHERE id = $1`, id).
		Scan(&c.Name, &c.Address, &c.GSTIN, &c.State)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, fmt.Errorf("customer %d: %w", id, quote.ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("loading customer %d: %w", id, err)
	}
	return c, nil
}

func (db *DB) CreateCustomer(ctx context.Context, c *quote.Customer) error {
	return insertCustomer(ctx, db.Pool, c)
}

func insertCustomer(ctx context.Context, q querier, c *quote.Customer) error {
	err := q.QueryRow(ctx,
		`INSERT INTO customers (name, address, gstin, state) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Address, c.GSTIN, c.State).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (db *DB) UpdateCustomer(ctx context.Context, c quote.Customer) error {
	return updateCustomer(ctx, db.Pool, c)
}

func updateCustomer(ctx context.Context, q querier, c quote.Customer) error {
	tag, err := q.Exec(ctx,
		`UPDATE customers SET name = $1, address = $2, gstin = $3, state = $4 WHERE id = $5`,
		c.Name, c.Address, c.GSTIN, c.State, c.ID)
	if err != nil {
		return fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", c.ID, quote.ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteCustomer(ctx context.Context, id int64) error {
	var inUse bool
	if err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quotations WHERE customer_id = $1)`, id).Scan(&inUse); err != nil {
		return fmt.Errorf("checking quotations of customer %d: %w", id, err)
	}
	if inUse {
		return fmt.Errorf("customer %d: %w", id, quote.ErrCustomerInUse)
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, quote.ErrNotFound)
	}
	return nil
}

func (db *DB) CreateQuotation(ctx context.Context, q *quote.Quotation) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if q.Customer.ID != 0 {
		if err := updateCustomer(ctx, tx, q.Customer); err != nil {
			return err
		}
	} else if err := insertCustomer(ctx, tx, &q.Customer); err != nil {
		return err
	}

	t := q.Totals
	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO quotations (quotation_number, date, customer_id, place_of_supply, tax_mode,
			total_basic, total_gst, grand_total, total_cgst, total_sgst, total_igst,
			percentage_cgst, percentage_sgst, percentage_igst)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		q.Number, q.Date, q.Customer.ID, q.PlaceOfSupply, q.TaxMode.String(),
		t.Basic, t.GST, t.Grand, t.CGST, t.SGST, t.IGST,
		q.CGSTPercent, q.SGSTPercent, q.IGSTPercent).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("quotation %s: %w", q.Number, quote.ErrDuplicateNumber)
		}
		return fmt.Errorf("inserting quotation: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range q.Items {
		batch.Queue(`INSERT INTO quotation_items (quotation_id, line_no, description, qty, rate, unit, gst_rate,
				basic_amount, gst_amount, total_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, i, it.Description, it.Quantity, it.UnitRate, it.Unit, it.GSTRatePercent,
			it.Basic, it.GST, it.Total)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting quotation items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing quotation: %w", err)
	}
	q.ID = id
	return nil
}

const quotationColumns = `q.id, q.quotation_number, q.date, q.place_of_supply, q.tax_mode,
	q.total_basic, q.total_gst, q.grand_total, q.total_cgst, q.total_sgst, q.total_igst,
	q.percentage_cgst, q.percentage_sgst, q.percentage_igst,
	c.id, c.name, c.address, c.gstin, c.state`

func scanQuotation(row pgx.Row) (quote.Quotation, error) {
	var (
		q    quote.Quotation
		mode string
	)
	err := row.Scan(&q.ID, &q.Number, &q.Date, &q.PlaceOfSupply, &mode,
		&q.Totals.Basic, &q.Totals.GST, &q.Totals.Grand, &q.Totals.CGST, &q.Totals.SGST, &q.Totals.IGST,
		&q.CGSTPercent, &q.SGSTPercent, &q.IGSTPercent,
		&q.Customer.ID, &q.Customer.Name, &q.Customer.Address, &q.Customer.GSTIN, &q.Customer.State)
	if err != nil {
		return q, err
	}
	if err := q.TaxMode.UnmarshalText([]byte(mode)); err != nil {
		return q, fmt.Errorf("quotation %d: %w", q.ID, err)
	}
	return q, nil
}

func (db *DB) GetQuotation(ctx context.Context, id int64) (quote.Quotation, error) {
	q, err := scanQuotation(db.Pool.QueryRow(ctx, `SELECT `+quotationColumns+`
		FROM quotations q JOIN customers c ON c.id = q.customer_id WHERE q.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return q, fmt.Errorf("quotation %d: %w", id, quote.ErrNotFound)
	}
	if err != nil {
		return q, fmt.Errorf("loading quotation %d: %w", id, err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT description, qty, rate, unit, gst_rate, basic_amount, gst_amount, total_amount
		FROM quotation_items WHERE quotation_id = $1 ORDER BY line_no, id`, id)
	if err != nil {
		return q, fmt.Errorf("loading items of quotation %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var it quote.Item
		if err := rows.Scan(&it.Description, &it.Quantity, &it.UnitRate, &it.Unit, &it.GSTRatePercent,
			&it.Basic, &it.GST, &it.Total); err != nil {
			return q, fmt.Errorf("scanning item of quotation %d: %w", id, err)
		}
		q.Items = append(q.Items, it)
	}
	return q, rows.Err()
}

func (db *DB) ListQuotations(ctx context.Context) ([]quote.Quotation, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+quotationColumns+`
		FROM quotations q JOIN customers c ON c.id = q.customer_id
		ORDER BY q.date DESC, q.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}
	defer rows.Close()

	out := []quote.Quotation{}
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quotation: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (db *DB) DeleteQuotation(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting quotation %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", id, quote.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
