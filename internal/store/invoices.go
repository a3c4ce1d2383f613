package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var invoiceEntity = entity{name: "Invoice", conflict: "Invoice already exists."}

var invoiceColumns = []string{
	"client_id", "quote_id", "project_id", "invoice_date", "due_date",
	"status", "total_amount", "notes", "invoice_items",
}

// InvoiceRepository persists invoices
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates an InvoiceRepository
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// views joins the client, the source quote and the project
func (r *InvoiceRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("invoices").
		Select(`invoices.*, clients.name AS client_name, clients.company AS client_company,
			projects.project_name AS project_name, quotes.quote_date AS quote_date`).
		Joins("LEFT JOIN clients ON clients.id = invoices.client_id").
		Joins("LEFT JOIN projects ON projects.id = invoices.project_id").
		Joins("LEFT JOIN quotes ON quotes.id = invoices.quote_id")
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return create(ctx, r.db, invoiceEntity, inv)
}

// List returns invoices newest first
func (r *InvoiceRepository) List(ctx context.Context) ([]domain.InvoiceView, error) {
	return scanAll[domain.InvoiceView](r.views(ctx).Order("invoices.invoice_date DESC, invoices.id DESC"), invoiceEntity)
}

func (r *InvoiceRepository) Get(ctx context.Context, id uint) (*domain.InvoiceView, error) {
	return scanOne[domain.InvoiceView](r.views(ctx).Where("invoices.id = ?", id), invoiceEntity)
}

func (r *InvoiceRepository) Update(ctx context.Context, id uint, inv *domain.Invoice) error {
	return replace(ctx, r.db, invoiceEntity, id, inv, invoiceColumns)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Invoice](ctx, r.db, invoiceEntity, id)
}
