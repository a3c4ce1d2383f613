package api

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"backoffice/internal/domain"
)

const dateLayout = "2006-01-02"

// Request structs mirror the JSON the UI posts for each entity

type clientRequest struct {
	Name    string `json:"name" binding:"required"`        // Name must be provided
	Email   string `json:"email" binding:"required,email"` // Valid email must be provided
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

func (r clientRequest) toModel() (*domain.Client, error) {
	return &domain.Client{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Phone:   r.Phone,
		Company: r.Company,
		Notes:   r.Notes,
	}, nil
}

type serviceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"` // Pointer so 0 counts as present
	Unit        string   `json:"unit" binding:"required"`
}

func (r serviceRequest) toModel() (*domain.Service, error) {
	if !slices.Contains(domain.ServiceUnits, r.Unit) {
		return nil, domain.Validation("unit must be one of: " + strings.Join(domain.ServiceUnits, ", "))
	}
	return &domain.Service{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Price:       *r.Price,
		Unit:        r.Unit,
	}, nil
}

type quoteRequest struct {
	ClientID    uint              `json:"client_id" binding:"required"`
	QuoteDate   string            `json:"quote_date" binding:"required,datetime=2006-01-02"`
	Status      string            `json:"status" binding:"required"`
	TotalAmount *float64          `json:"total_amount" binding:"required,gte=0"`
	Notes       string            `json:"notes"`
	QuoteItems  []domain.LineItem `json:"quote_items" binding:"required,dive"`
}

func (r quoteRequest) toModel() (*domain.Quote, error) {
	if err := checkTotal(*r.TotalAmount, r.QuoteItems); err != nil {
		return nil, err
	}
	return &domain.Quote{
		ClientID:    r.ClientID,
		QuoteDate:   r.QuoteDate,
		Status:      r.Status,
		TotalAmount: *r.TotalAmount,
		Notes:       r.Notes,
		QuoteItems:  domain.LineItems(r.QuoteItems),
	}, nil
}

type projectRequest struct {
	ClientID    *uint   `json:"client_id"` // Optional: internal projects have no client
	ProjectName string  `json:"project_name" binding:"required"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status" binding:"required"`
	Notes       string  `json:"notes"`
}

func (r projectRequest) toModel() (*domain.Project, error) {
	endDate, err := optionalDate("end_date", r.EndDate)
	if err != nil {
		return nil, err
	}
	clientID := r.ClientID
	if clientID != nil && *clientID == 0 {
		clientID = nil
	}
	return &domain.Project{
		ClientID:    clientID,
		ProjectName: strings.TrimSpace(r.ProjectName),
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     endDate,
		Status:      r.Status,
		Notes:       r.Notes,
	}, nil
}

type invoiceRequest struct {
	ClientID     uint              `json:"client_id" binding:"required"`
	QuoteID      *uint             `json:"quote_id"`
	ProjectID    *uint             `json:"project_id"`
	InvoiceDate  string            `json:"invoice_date" binding:"required,datetime=2006-01-02"`
	DueDate      string            `json:"due_date" binding:"required,datetime=2006-01-02"`
	Status       string            `json:"status" binding:"required"`
	TotalAmount  *float64          `json:"total_amount" binding:"required,gte=0"`
	Notes        string            `json:"notes"`
	InvoiceItems []domain.LineItem `json:"invoice_items" binding:"required,dive"`
}

func (r invoiceRequest) toModel() (*domain.Invoice, error) {
	if err := checkTotal(*r.TotalAmount, r.InvoiceItems); err != nil {
		return nil, err
	}
	return &domain.Invoice{
		ClientID:     r.ClientID,
		QuoteID:      optionalRef(r.QuoteID),
		ProjectID:    optionalRef(r.ProjectID),
		InvoiceDate:  r.InvoiceDate,
		DueDate:      r.DueDate,
		Status:       r.Status,
		TotalAmount:  *r.TotalAmount,
		Notes:        r.Notes,
		InvoiceItems: domain.LineItems(r.InvoiceItems),
	}, nil
}

type taskRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category"`
	DueDate   string `json:"due_date" binding:"required,datetime=2006-01-02"`
	Status    string `json:"status" binding:"required"`
	Priority  string `json:"priority" binding:"required"`
	Progress  *int   `json:"progress" binding:"omitempty,min=0,max=100"` // Percentage, 0 when omitted
}

func (r taskRequest) toModel() (*domain.Task, error) {
	progress := 0
	if r.Progress != nil {
		progress = *r.Progress
	}
	return &domain.Task{
		ProjectID: r.ProjectID,
		Name:      strings.TrimSpace(r.Name),
		Category:  r.Category,
		DueDate:   r.DueDate,
		Status:    r.Status,
		Priority:  r.Priority,
		Progress:  progress,
	}, nil
}

type bugRequest struct {
	ProjectID    uint   `json:"project_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Severity     string `json:"severity" binding:"required"`
	Status       string `json:"status" binding:"required"`
	ReportedDate string `json:"reported_date" binding:"required,datetime=2006-01-02"`
}

func (r bugRequest) toModel() (*domain.Bug, error) {
	return &domain.Bug{
		ProjectID:    r.ProjectID,
		Name:         strings.TrimSpace(r.Name),
		Severity:     r.Severity,
		Status:       r.Status,
		ReportedDate: r.ReportedDate,
	}, nil
}

// checkTotal rejects a document whose total disagrees with its line items
func checkTotal(total float64, items []domain.LineItem) error {
	if domain.TotalMatches(total, items) {
		return nil
	}
	return domain.Validation(fmt.Sprintf(
		"total_amount %.2f does not match the line items (%s)", total, domain.SumLineItems(items).StringFixed(2)))
}

// optionalDate treats an empty string like an absent date
func optionalDate(field string, v *string) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	if _, err := time.Parse(dateLayout, *v); err != nil {
		return nil, domain.Validation(field + " must be a date in YYYY-MM-DD format")
	}
	return v, nil
}

// optionalRef treats id 0 like an absent reference
func optionalRef(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
