// Package store holds one repository per table. Repositories translate
// driver errors into domain errors and never validate business rules.
package store

import "gorm.io/gorm"

// Store groups the repositories sharing one database handle
type Store struct {
	Users    *UserRepository
	Settings *SettingsRepository
	Clients  *ClientRepository
	Services *ServiceRepository
	Quotes   *QuoteRepository
	Projects *ProjectRepository
	Invoices *InvoiceRepository
	Tasks    *TaskRepository
	Bugs     *BugRepository
}

// New builds every repository over db
func New(db *gorm.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Settings: NewSettingsRepository(db),
		Clients:  NewClientRepository(db),
		Services: NewServiceRepository(db),
		Quotes:   NewQuoteRepository(db),
		Projects: NewProjectRepository(db),
		Invoices: NewInvoiceRepository(db),
		Tasks:    NewTaskRepository(db),
		Bugs:     NewBugRepository(db),
	}
}
