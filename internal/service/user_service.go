package service

import (
	"context"
	"errors"
	"strings"

	"uniwiz/internal/models"
	"uniwiz/internal/repository"
	"uniwiz/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService provides registration, authentication and account lookup.
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cost     int
}

// RegisterInput is the input for creating an account.
type RegisterInput struct {
	Email       string
	Password    string
	Role        models.UserRole
	FirstName   string
	LastName    string
	CompanyName string
}

// NewUserService returns a new UserService.
func NewUserService(db *gorm.DB, userRepo repository.UserRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo, cost: bcrypt.DefaultCost}
}

// SetHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates a student or publisher account with its empty profile.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role != models.RoleStudent && in.Role != models.RolePublisher {
		return nil, models.NewValidationError("role must be student or publisher")
	}
	return s.create(ctx, in)
}

// CreateAdmin creates an administrator account. It is only reachable from
// operator tooling, never from the public API.
func (s *UserService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Role = models.RoleAdmin
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*models.User, error) {
	email, err := validation.NormalizeEmail(in.Email)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user := &models.User{
		Email:     email,
		Role:      in.Role,
		Status:    models.UserStatusActive,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	switch in.Role {
	case models.RolePublisher:
		user.CompanyName = strings.TrimSpace(in.CompanyName)
		if user.CompanyName == "" {
			return nil, models.NewValidationError("company_name is required for publishers")
		}
	default:
		if user.FirstName == "" {
			return nil, models.NewValidationError("first_name is required")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Password = string(hash)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)
		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return errEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.Create(ctx, user); err != nil {
			return err
		}
		switch user.Role {
		case models.RoleStudent:
			return repo.CreateStudentProfile(ctx, &models.StudentProfile{UserID: user.ID})
		case models.RolePublisher:
			return repo.CreatePublisherProfile(ctx, &models.PublisherProfile{UserID: user.ID})
		}
		return nil
	})
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, errEmailTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, models.NewConflictError("An account with this email already exists")
	default:
		return nil, models.NewInternalError(err)
	}
}

var errEmailTaken = errors.New("email taken")

// Authenticate verifies credentials. Blocked accounts are refused.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid email or password")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, invalid
	}
	if !user.IsActive() {
		return nil, models.NewForbiddenError("Your account has been blocked")
	}
	return user, nil
}

// GetByID returns a user with their profile.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User", id)
	}
	return user, nil
}

// ListAdmins returns every administrator account.
func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListAdmins(ctx)
}
