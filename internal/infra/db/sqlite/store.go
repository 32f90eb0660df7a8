package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vasavi/quotation/internal/domain/quote"
)

var _ quote.Store = (*Store)(nil)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) EnsureCompany(ctx context.Context, def quote.Company) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO company (id, name, address_line_1, state, gstin, phone)
		VALUES (1, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		def.Name, def.AddressLine1, def.State, def.GSTIN, def.Phone)
	if err != nil {
		return fmt.Errorf("seeding company: %w", err)
	}
	return nil
}

func (s *Store) Company(ctx context.Context) (quote.Company, error) {
	var c quote.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT name, address_line_1, state, gstin, phone FROM company WHERE id = 1`).
		Scan(&c.Name, &c.AddressLine1, &c.State, &c.GSTIN, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("company: %w", quote.ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("loading company: %w", err)
	}
	return c, nil
}

func (s *Store) SaveCompany(ctx context.Context, c quote.Company) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO company (id, name, address_line_1, state, gstin, phone)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, address_line_1 = excluded.address_line_1,
			state = excluded.state, gstin = excluded.gstin, phone = excluded.phone`,
		c.Name, c.AddressLine1, c.State, c.GSTIN, c.Phone)
	if err != nil {
		return fmt.Errorf("saving company: %w", err)
	}
	return nil
}

func (s *Store) SearchCustomers(ctx context.Context, q string, limit int) ([]quote.Customer, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.queryCustomers(ctx, `SELECT id, name, address, gstin, state FROM customers
			ORDER BY name, id LIMIT ?`, limit)
	}
	return s.queryCustomers(ctx, `SELECT id, name, address, gstin, state FROM customers
		WHERE LOWER(name) LIKE '%' || LOWER(?) || '%' ESCAPE '\'
		ORDER BY name, id LIMIT ?`, escapeLike(q), limit)
}

func (s *Store) ListCustomers(ctx context.Context) ([]quote.Customer, error) {
	return s.queryCustomers(ctx, `SELECT id, name, address, gstin, state FROM customers ORDER BY name, id`)
}

func (s *Store) queryCustomers(ctx context.Context, query string, args ...any) ([]quote.Customer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *Store) GetCustomer(ctx context.Context, id int64) (quote.Customer, error) {
	return getCustomer(ctx, s.db, id)
}

func getCustomer(ctx context.Context, db dbtx, id int64) (quote.Customer, error) {
	c := quote.Customer{ID: id}
	err := db.QueryRowContext(ctx, `SELECT name, address, gstin, state FROM customers WHERE id = ?`, id).
		Scan(&c.Name, &c.Address, &c.GSTIN, &c.State)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("customer %d: %w", id, quote.ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("loading customer %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *quote.Customer) error {
	return insertCustomer(ctx, s.db, c)
}

func insertCustomer(ctx context.Context, db dbtx, c *quote.Customer) error {
	res, err := db.ExecContext(ctx,
		`INSERT INTO customers (name, address, gstin, state) VALUES (?, ?, ?, ?)`,
		c.Name, c.Address, c.GSTIN, c.State)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	c.ID = id
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c quote.Customer) error {
	return updateCustomer(ctx, s.db, c)
}

func updateCustomer(ctx context.Context, db dbtx, c quote.Customer) error {
	res, err := db.ExecContext(ctx,
		`UPDATE customers SET name = ?, address = ?, gstin = ?, state = ? WHERE id = ?`,
		c.Name, c.Address, c.GSTIN, c.State, c.ID)
	if err != nil {
		return fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	return expectOne(res, fmt.Sprintf("customer %d", c.ID))
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotations WHERE customer_id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("counting quotations of customer %d: %w", id, err)
	}
	if n > 0 {
		return fmt.Errorf("customer %d: %w", id, quote.ErrCustomerInUse)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	return expectOne(res, fmt.Sprintf("customer %d", id))
}

func (s *Store) CreateQuotation(ctx context.Context, q *quote.Quotation) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if q.Customer.ID != 0 {
		if err = updateCustomer(ctx, tx, q.Customer); err != nil {
			return err
		}
	} else if err = insertCustomer(ctx, tx, &q.Customer); err != nil {
		return err
	}

	t := q.Totals
	res, err := tx.ExecContext(ctx,
		`INSERT INTO quotations (quotation_number, date, customer_id, place_of_supply, tax_mode,
			total_basic, total_gst, grand_total, total_cgst, total_sgst, total_igst,
			percentage_cgst, percentage_sgst, percentage_igst)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Number, q.Date.Format(quote.DateLayout), q.Customer.ID, q.PlaceOfSupply, q.TaxMode.String(),
		t.Basic, t.GST, t.Grand, t.CGST, t.SGST, t.IGST,
		q.CGSTPercent, q.SGSTPercent, q.IGSTPercent)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("quotation %s: %w", q.Number, quote.ErrDuplicateNumber)
		}
		return fmt.Errorf("inserting quotation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("inserting quotation: %w", err)
	}

	for i, it := range q.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO quotation_items (quotation_id, line_no, description, qty, rate, unit, gst_rate,
				basic_amount, gst_amount, total_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, it.Description, it.Quantity, it.UnitRate, it.Unit, it.GSTRatePercent,
			it.Basic, it.GST, it.Total)
		if err != nil {
			return fmt.Errorf("inserting quotation item %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing quotation: %w", err)
	}
	q.ID = id
	return nil
}

const quotationColumns = `q.id, q.quotation_number, q.date, q.place_of_supply, q.tax_mode,
	q.total_basic, q.total_gst, q.grand_total, q.total_cgst, q.total_sgst, q.total_igst,
	q.percentage_cgst, q.percentage_sgst, q.percentage_igst,
	c.id, c.name, c.address, c.gstin, c.state`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuotation(row scanner) (quote.Quotation, error) {
	var (
		q    quote.Quotation
		date string
		mode string
	)
	err := row.Scan(&q.ID, &q.Number, &date, &q.PlaceOfSupply, &mode,
		&q.Totals.Basic, &q.Totals.GST, &q.Totals.Grand, &q.Totals.CGST, &q.Totals.SGST, &q.Totals.IGST,
		&q.CGSTPercent, &q.SGSTPercent, &q.IGSTPercent,
		&q.Customer.ID, &q.Customer.Name, &q.Customer.Address, &q.Customer.GSTIN, &q.Customer.State)
	if err != nil {
		return q, err
	}
	if q.Date, err = time.Parse(quote.DateLayout, date); err != nil {
		return q, fmt.Errorf("parsing date of quotation %d: %w", q.ID, err)
	}
	if err = q.TaxMode.UnmarshalText([]byte(mode)); err != nil {
		return q, fmt.Errorf("quotation %d: %w", q.ID, err)
	}
	return q, nil
}

func (s *Store) GetQuotation(ctx context.Context, id int64) (quote.Quotation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quotationColumns+`
		FROM quotations q JOIN customers c ON c.id = q.customer_id WHERE q.id = ?`, id)
	q, err := scanQuotation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return q, fmt.Errorf("quotation %d: %w", id, quote.ErrNotFound)
	}
	if err != nil {
		return q, fmt.Errorf("loading quotation %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT description, qty, rate, unit, gst_rate, basic_amount, gst_amount, total_amount
		FROM quotation_items WHERE quotation_id = ? ORDER BY line_no, id`, id)
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

func (s *Store) ListQuotations(ctx context.Context) ([]quote.Quotation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+quotationColumns+`
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

func (s *Store) DeleteQuotation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting quotation %d: %w", id, err)
	}
	return expectOne(res, fmt.Sprintf("quotation %d", id))
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, quote.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
