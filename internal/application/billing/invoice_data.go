package billing

import (
	"time"

	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// InvoiceItem is one line of a rendered invoice
type InvoiceItem struct {
	Description string
	Quantity    int
	UnitPrice   valueobject.Money
	Total       valueobject.Money
}

// InvoiceData carries everything the renderer needs to produce a document
type InvoiceData struct {
	PharmacyName    string
	PharmacyTaxID   string
	PharmacyAddress string

	Number   string
	IssuedAt time.Time
	DueDate  *time.Time

	ClientName  string
	ClientPhone string

	Items       []InvoiceItem
	Subtotal    valueobject.Money
	TaxAmount   valueobject.Money
	Discount    valueobject.Money
	TotalAmount valueobject.Money

	Notes string
}
