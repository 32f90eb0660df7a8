package pdf

import "vasavi/quotation/internal/domain/quote"

type Generator interface {
	Generate(q quote.Quotation, company quote.Company) ([]byte, error)
}
