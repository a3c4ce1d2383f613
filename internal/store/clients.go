package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var clientEntity = entity{name: "Client", conflict: "A client with this email already exists."}

// clientColumns are replaced by Update
var clientColumns = []string{"name", "email", "phone", "company", "notes"}

// ClientRepository persists clients
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a ClientRepository
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client; a taken email is a CONFLICT
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return create(ctx, r.db, clientEntity, c)
}

// List returns every client in insertion order
func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	clients := []domain.Client{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, translate(err, clientEntity)
	}
	return clients, nil
}

// Get returns one client
func (r *ClientRepository) Get(ctx context.Context, id uint) (*domain.Client, error) {
	return find[domain.Client](ctx, r.db, clientEntity, id)
}

// Update replaces every mutable field of a client
func (r *ClientRepository) Update(ctx context.Context, id uint, c *domain.Client) error {
	return replace(ctx, r.db, clientEntity, id, c, clientColumns)
}

// Delete removes a client together with its quotes and invoices.
// Its projects are kept with the client reference cleared.
func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Client](ctx, r.db, clientEntity, id)
}

var serviceEntity = entity{name: "Service", conflict: "A service with this name already exists."}

var serviceColumns = []string{"name", "description", "price", "unit"}

// ServiceRepository persists the service catalog
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a ServiceRepository
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return create(ctx, r.db, serviceEntity, s)
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	services := []domain.Service{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&services).Error; err != nil {
		return nil, translate(err, serviceEntity)
	}
	return services, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id uint) (*domain.Service, error) {
	return find[domain.Service](ctx, r.db, serviceEntity, id)
}

// Update changes the catalog entry only; existing line items keep their snapshot
func (r *ServiceRepository) Update(ctx context.Context, id uint, s *domain.Service) error {
	return replace(ctx, r.db, serviceEntity, id, s, serviceColumns)
}

func (r *ServiceRepository) Delete(ctx context.Context, id uint) error {
	return remove[domain.Service](ctx, r.db, serviceEntity, id)
}
