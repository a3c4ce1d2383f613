package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var projectEntity = entity{name: "Project", conflict: "Project already exists."}

var projectColumns = []string{"client_id", "project_name", "description", "start_date", "end_date", "status", "notes"}

// ProjectRepository persists projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("projects").
		Select("projects.*, clients.name AS client_name, clients.company AS client_company").
		Joins("LEFT JOIN clients ON clients.id = projects.client_id")
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return create(ctx, r.db, projectEntity, p)
}

// List returns projects by start date, latest first
func (r *ProjectRepository) List(ctx context.Context) ([]domain.ProjectView, error) {
	return scanAll[domain.ProjectView](r.views(ctx).Order("projects.start_date DESC, projects.id DESC"), projectEntity)
}

func (r *ProjectRepository) Get(ctx context.Context, id uint) (*domain.ProjectView, error) {
	return scanOne[domain.ProjectView](r.views(ctx).Where("projects.id = ?", id), projectEntity)
}

func (r *ProjectRepository) Update(ctx context.Context, id uint, p *domain.Project) error {
	return replace(ctx, r.db, projectEntity, id, p, projectColumns)
}

// Delete removes a project with its tasks and bugs
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Project](ctx, r.db, projectEntity, id)
}

// DueOn returns open projects ending on endDate, each joined with its client
// and with the notification settings of ownerID
func (r *ProjectRepository) DueOn(ctx context.Context, endDate string, ownerID uint) ([]domain.DueProject, error) {
	q := r.db.WithContext(ctx).Table("projects").
		Select(`projects.id AS project_id, projects.project_name, projects.end_date, projects.status,
			clients.name AS client_name,
			user_settings.email_for_notifications AS notification_email,
			user_settings.phonetic_name AS owner_name`).
		Joins("LEFT JOIN clients ON clients.id = projects.client_id").
		Joins("LEFT JOIN user_settings ON user_settings.user_id = ?", ownerID).
		Where("projects.end_date = ?", endDate).
		Where("projects.status NOT IN ?", []string{domain.ProjectCompleted, domain.ProjectCancelled}).
		Order("projects.id ASC")
	return scanAll[domain.DueProject](q, projectEntity)
}
