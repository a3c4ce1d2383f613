package domain

// Invoice Model
type Invoice struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClientID     uint      `gorm:"not null;index" json:"client_id"`
	Client       *Client   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuoteID      *uint     `gorm:"index" json:"quote_id"`                  // Optional source quote
	Quote        *Quote    `gorm:"constraint:OnDelete:SET NULL;" json:"-"` // Reference cleared when the quote goes
	ProjectID    *uint     `gorm:"index" json:"project_id"`                // Optional project
	Project      *Project  `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	InvoiceDate  string    `gorm:"not null" json:"invoice_date"`
	DueDate      string    `gorm:"not null" json:"due_date"`
	Status       string    `gorm:"not null" json:"status"` // Draft, Sent, Paid, Overdue, Cancelled
	TotalAmount  float64   `gorm:"not null" json:"total_amount"`
	Notes        string    `json:"notes"`
	InvoiceItems LineItems `gorm:"not null" json:"invoice_items"`
}

// InvoiceView is an invoice joined with client, quote and project display fields
type InvoiceView struct {
	Invoice
	ClientName    string  `json:"client_name"`
	ClientCompany string  `json:"client_company"`
	ProjectName   *string `json:"project_name"`
	QuoteDate     *string `json:"quote_date"`
}

// GetID returns the primary key
func (i Invoice) GetID() uint { return i.ID }
