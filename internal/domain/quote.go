package domain

// Quote statuses used by the UI; the store does not enforce them
const (
	QuoteDraft    = "Draft"
	QuoteSent     = "Sent"
	QuoteAccepted = "Accepted"
	QuoteRejected = "Rejected"
)

// Quote Model
type Quote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClientID    uint      `gorm:"not null;index" json:"client_id"`
	Client      *Client   `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // Removed with its client
	QuoteDate   string    `gorm:"not null" json:"quote_date"`
	Status      string    `gorm:"not null" json:"status"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"` // Sum of line items at write time
	Notes       string    `json:"notes"`
	QuoteItems  LineItems `gorm:"not null" json:"quote_items"`
}

// QuoteView is a quote joined with its client for list screens
type QuoteView struct {
	Quote
	ClientName    string `json:"client_name"`
	ClientCompany string `json:"client_company"`
}

// GetID returns the primary key
func (q Quote) GetID() uint { return q.ID }
