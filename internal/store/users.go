package store

import (
	"context"
	"errors"
	"strings"

	"backoffice/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"
)

// DemoUsername is the fixed account behind the demo login
const DemoUsername = "demo"

var userEntity = entity{name: "User", conflict: "Username already exists"}

// UserRepository persists users and verifies their credentials
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create hashes the password and inserts the user together with default settings
func (r *UserRepository) Create(ctx context.Context, username, password, role string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.Validation("Username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.StoreFailure("Failed to hash password", err)
	}
	user := &domain.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := r.insertWithSettings(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// insertWithSettings writes the user and its settings row in one transaction
func (r *UserRepository) insertWithSettings(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		settings := domain.DefaultSettings(user.ID, user.Username)
		return tx.Create(&settings).Error
	})
	return translate(err, userEntity)
}

// Authenticate returns the user when the password matches its stored hash
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, translate(err, userEntity)
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Unauthorized("Invalid credentials")
	}
	return &user, nil
}

// Get returns one user
func (r *UserRepository) Get(ctx context.Context, id uint) (*domain.User, error) {
	return find[domain.User](ctx, r.db, userEntity, id)
}

// List returns one page of users ordered by id plus the total count
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, userEntity)
	}
	users := []domain.User{}
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, translate(err, userEntity)
	}
	return users, total, nil
}

// FindOrCreateDemo returns the demo account, provisioning it on first use.
// Its password is random and never disclosed, so it can only be reached
// through the demo login. A regular account that happens to hold the demo
// username is never returned.
func (r *UserRepository) FindOrCreateDemo(ctx context.Context) (*domain.User, error) {
	user, err := r.findDemo(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, userEntity)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.StoreFailure("Failed to hash password", err)
	}
	user = &domain.User{Username: DemoUsername, PasswordHash: string(hash), Role: domain.RoleDemo}
	if err := r.insertWithSettings(ctx, user); err != nil {
		if !domain.IsCode(err, domain.CodeConflict) {
			return nil, err
		}
		// Either a concurrent demo login created it or a regular account holds the name
		user, err := r.findDemo(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Conflict("Demo account is unavailable")
		}
		if err != nil {
			return nil, translate(err, userEntity)
		}
		return user, nil
	}
	return user, nil
}

// findDemo loads the account holding the demo username and the demo role
func (r *UserRepository) findDemo(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ? AND role = ?", DemoUsername, domain.RoleDemo).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
