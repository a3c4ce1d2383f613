package domain

// Client Model, root of ownership for quotes, invoices and (optionally) projects
type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`                       // Primary key
	Name    string `gorm:"not null" json:"name"`                       // Display name
	Email   string `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique contact email, sized to fit a MySQL index
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// Service Model, a catalog entry copied by value into line items
type Service struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:191;uniqueIndex;not null" json:"name"` // Unique catalog name
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"` // Non-negative unit price
	Unit        string  `gorm:"not null" json:"unit"`  // One of ServiceUnits
}

// ServiceUnits enumerates the billing units a service may use
var ServiceUnits = []string{"fixed", "per hour", "per day", "per month", "per unit"}

// GetID returns the primary key
func (c Client) GetID() uint { return c.ID }

// GetID returns the primary key
func (s Service) GetID() uint { return s.ID }
