package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var quoteEntity = entity{name: "Quote", conflict: "Quote already exists."}

var quoteColumns = []string{"client_id", "quote_date", "status", "total_amount", "notes", "quote_items"}

// QuoteRepository persists quotes. Callers must check that total_amount
// matches the line items before writing.
type QuoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a QuoteRepository
func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// views selects quotes joined with their client
func (r *QuoteRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("quotes").
		Select("quotes.*, clients.name AS client_name, clients.company AS client_company").
		Joins("LEFT JOIN clients ON clients.id = quotes.client_id")
}

func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	return create(ctx, r.db, quoteEntity, q)
}

// List returns quotes newest first
func (r *QuoteRepository) List(ctx context.Context) ([]domain.QuoteView, error) {
	return scanAll[domain.QuoteView](r.views(ctx).Order("quotes.quote_date DESC, quotes.id DESC"), quoteEntity)
}

func (r *QuoteRepository) Get(ctx context.Context, id uint) (*domain.QuoteView, error) {
	return scanOne[domain.QuoteView](r.views(ctx).Where("quotes.id = ?", id), quoteEntity)
}

func (r *QuoteRepository) Update(ctx context.Context, id uint, q *domain.Quote) error {
	return replace(ctx, r.db, quoteEntity, id, q, quoteColumns)
}

// Delete removes a quote; invoices created from it keep existing without the reference
func (r *QuoteRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Quote](ctx, r.db, quoteEntity, id)
}
