package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var (
	taskEntity = entity{name: "Task", conflict: "Task already exists."}
	bugEntity  = entity{name: "Bug", conflict: "Bug already exists."}
)

var (
	taskColumns = []string{"project_id", "name", "category", "due_date", "status", "priority", "progress"}
	bugColumns  = []string{"project_id", "name", "severity", "status", "reported_date"}
)

// projectChildViews selects rows of a project-owned table with the project and client names
func projectChildViews(db *gorm.DB, table string) *gorm.DB {
	return db.Table(table).
		Select(table + ".*, projects.project_name AS project_name, clients.name AS client_name").
		Joins("LEFT JOIN projects ON projects.id = " + table + ".project_id").
		Joins("LEFT JOIN clients ON clients.id = projects.client_id")
}

// TaskRepository persists project tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a TaskRepository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return create(ctx, r.db, taskEntity, t)
}

// List returns tasks by due date, soonest first
func (r *TaskRepository) List(ctx context.Context) ([]domain.TaskView, error) {
	q := projectChildViews(r.db.WithContext(ctx), "tasks").Order("tasks.due_date ASC, tasks.id ASC")
	return scanAll[domain.TaskView](q, taskEntity)
}

func (r *TaskRepository) Get(ctx context.Context, id uint) (*domain.TaskView, error) {
	q := projectChildViews(r.db.WithContext(ctx), "tasks").Where("tasks.id = ?", id)
	return scanOne[domain.TaskView](q, taskEntity)
}

func (r *TaskRepository) Update(ctx context.Context, id uint, t *domain.Task) error {
	return replace(ctx, r.db, taskEntity, id, t, taskColumns)
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Task](ctx, r.db, taskEntity, id)
}

// BugRepository persists project bugs
type BugRepository struct {
	db *gorm.DB
}

// NewBugRepository creates a BugRepository
func NewBugRepository(db *gorm.DB) *BugRepository {
	return &BugRepository{db: db}
}

func (r *BugRepository) Create(ctx context.Context, b *domain.Bug) error {
	return create(ctx, r.db, bugEntity, b)
}

// List returns bugs most recently reported first
func (r *BugRepository) List(ctx context.Context) ([]domain.BugView, error) {
	q := projectChildViews(r.db.WithContext(ctx), "bugs").Order("bugs.reported_date DESC, bugs.id DESC")
	return scanAll[domain.BugView](q, bugEntity)
}

func (r *BugRepository) Get(ctx context.Context, id uint) (*domain.BugView, error) {
	q := projectChildViews(r.db.WithContext(ctx), "bugs").Where("bugs.id = ?", id)
	return scanOne[domain.BugView](q, bugEntity)
}

func (r *BugRepository) Update(ctx context.Context, id uint, b *domain.Bug) error {
	return replace(ctx, r.db, bugEntity, id, b, bugColumns)
}

func (r *BugRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Bug](ctx, r.db, bugEntity, id)
}
