package domain

// Task Model
type Task struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProjectID uint     `gorm:"not null;index" json:"project_id"`
	Project   *Project `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Name      string   `gorm:"not null" json:"name"`
	Category  string   `json:"category"`
	DueDate   string   `gorm:"not null" json:"due_date"`
	Status    string   `gorm:"not null;default:Pending" json:"status"`  // Pending, In Progress, Completed, Blocked
	Priority  string   `gorm:"not null;default:Medium" json:"priority"` // Low, Medium, High
	Progress  int      `gorm:"not null" json:"progress"`                // Percentage 0-100
}

// TaskView is a task joined with its project and that project's client
type TaskView struct {
	Task
	ProjectName *string `json:"project_name"`
	ClientName  *string `json:"client_name"`
}

// Bug Model
type Bug struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	ProjectID    uint     `gorm:"not null;index" json:"project_id"`
	Project      *Project `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Name         string   `gorm:"not null" json:"name"`
	Severity     string   `gorm:"not null;default:Medium" json:"severity"` // Low, Medium, High, Critical
	Status       string   `gorm:"not null;default:Open" json:"status"`     // Open, In Progress, Closed
	ReportedDate string   `gorm:"not null" json:"reported_date"`
}

// BugView is a bug joined with its project and that project's client
type BugView struct {
	Bug
	ProjectName *string `json:"project_name"`
	ClientName  *string `json:"client_name"`
}

// GetID returns the primary key
func (t Task) GetID() uint { return t.ID }

// GetID returns the primary key
func (b Bug) GetID() uint { return b.ID }
