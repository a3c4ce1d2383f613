package domain

// Project statuses; Completed and Cancelled projects receive no reminders
const (
	ProjectPlanning   = "Planning"
	ProjectInProgress = "In Progress"
	ProjectOnHold     = "On Hold"
	ProjectCompleted  = "Completed"
	ProjectCancelled  = "Cancelled"
)

// Project Model, parent of tasks and bugs
type Project struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ClientID    *uint   `gorm:"index" json:"client_id"`                 // Nullable: internal projects have no client
	Client      *Client `gorm:"constraint:OnDelete:SET NULL;" json:"-"` // Detached when the client is deleted
	ProjectName string  `gorm:"column:project_name;not null" json:"project_name"`
	Description string  `json:"description"`
	StartDate   string  `gorm:"not null" json:"start_date"`
	EndDate     *string `gorm:"index" json:"end_date"`
	Status      string  `gorm:"not null" json:"status"`
	Notes       string  `json:"notes"`
}

// ProjectView is a project joined with its client
type ProjectView struct {
	Project
	ClientName    *string `json:"client_name"`
	ClientCompany *string `json:"client_company"`
}

// DueProject is a project due for a reminder, joined with its client and
// the notification settings of the user who receives reminders
type DueProject struct {
	ProjectID         uint    `json:"project_id"`
	ProjectName       string  `json:"project_name"`
	EndDate           string  `json:"end_date"`
	Status            string  `json:"status"`
	ClientName        *string `json:"client_name"`        // Nil for internal projects
	NotificationEmail *string `json:"notification_email"` // Nil when the owner has no settings row
	OwnerName         *string `json:"owner_name"`         // Owner's phonetic name
}

// GetID returns the primary key
func (p Project) GetID() uint { return p.ID }
