package quote

import "context"

// Store persists the company profile, customers and quotations.
type Store interface {
	// EnsureCompany inserts def when no company profile exists yet.
	EnsureCompany(ctx context.Context, def Company) error
	Company(ctx context.Context) (Company, error)
	SaveCompany(ctx context.Context, c Company) error

	// SearchCustomers matches q case-insensitively anywhere in the name.
	SearchCustomers(ctx context.Context, q string, limit int) ([]Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	CreateCustomer(ctx context.Context, c *Customer) error
	UpdateCustomer(ctx context.Context, c Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	// CreateQuotation stores q with its items in one transaction. A customer
	// with an ID is updated in place, one without is inserted first; q.ID and
	// q.Customer.ID are filled in.
	CreateQuotation(ctx context.Context, q *Quotation) error
	GetQuotation(ctx context.Context, id int64) (Quotation, error)
	// ListQuotations returns quotations without items, newest first.
	ListQuotations(ctx context.Context) ([]Quotation, error)
	DeleteQuotation(ctx context.Context, id int64) error
}

const (
	SearchLimit = 10
	BrowseLimit = 20
)
