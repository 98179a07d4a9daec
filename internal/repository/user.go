// Package repository provides gorm data access per aggregate.
package repository

import (
	"context"
	"strings"

	"uniwiz/internal/cache"
	"uniwiz/internal/models"

	"gorm.io/gorm"
)

// UserFilter narrows the admin user search.
type UserFilter struct {
	Role   models.UserRole
	Status models.UserStatus
	Query  string
	Limit  int
	Offset int
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	CreateStudentProfile(ctx context.Context, profile *models.StudentProfile) error
	CreatePublisherProfile(ctx context.Context, profile *models.PublisherProfile) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetCachedByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error
	SetVerified(ctx context.Context, id uint, verified bool) error
	SetRole(ctx context.Context, id uint, role models.UserRole) error
	CountByRole(ctx context.Context) (map[models.UserRole]int64, error)
	DeleteCascade(ctx context.Context, id uint) ([]uint, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) CreateStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *userRepository) CreatePublisherProfile(ctx context.Context, profile *models.PublisherProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("PublisherProfile").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCachedByID serves the auth path. The cached copy carries no password
// hash and no profiles.
func (r *userRepository) GetCachedByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := cache.Aside(ctx, cache.UserKey(id), cache.UserTTL, func(ctx context.Context) (models.User, error) {
		var u models.User
		err := r.db.WithContext(ctx).First(&u, id).Error
		return u, err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(company_name) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("created_at DESC, id DESC").Scopes(paginate(filter.Limit, filter.Offset)).Find(&users).Error
	return users, total, err
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *userRepository) SetVerified(ctx context.Context, id uint, verified bool) error {
	return r.updateColumn(ctx, id, "is_verified", verified)
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.UserRole) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context) (map[models.UserRole]int64, error) {
	var rows []struct {
		Role  models.UserRole
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[models.UserRole]int64{}
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

// DeleteCascade removes the user and every row that references them and
// returns the publishers whose reviews were removed. Callers run it inside a
// transaction and drop cached entries after it commits.
func (r *userRepository) DeleteCascade(ctx context.Context, id uint) ([]uint, error) {
	db := r.db.WithContext(ctx)

	var reviewed []uint
	if err := db.Model(&models.CompanyReview{}).
		Where("student_id = ? OR publisher_id = ?", id, id).
		Distinct().Pluck("publisher_id", &reviewed).Error; err != nil {
		return nil, err
	}

	conversations := db.Model(&models.Conversation{}).Select("id").
		Where("user_one_id = ? OR user_two_id = ?", id, id)
	jobs := db.Model(&models.Job{}).Select("id").Where("publisher_id = ?", id)

	steps := []struct {
		model interface{}
		query string
		args  []interface{}
	}{
		{&models.Report{}, "reporter_id = ? OR reported_user_id = ? OR conversation_id IN (?)", []interface{}{id, id, conversations}},
		{&models.Message{}, "sender_id = ? OR receiver_id = ? OR conversation_id IN (?)", []interface{}{id, id, conversations}},
		{&models.Conversation{}, "user_one_id = ? OR user_two_id = ?", []interface{}{id, id}},
		{&models.CompanyReview{}, "student_id = ? OR publisher_id = ?", []interface{}{id, id}},
		{&models.JobApplication{}, "student_id = ? OR job_id IN (?)", []interface{}{id, jobs}},
		{&models.Job{}, "publisher_id = ?", []interface{}{id}},
		{&models.StudentProfile{}, "user_id = ?", []interface{}{id}},
		{&models.PublisherProfile{}, "user_id = ?", []interface{}{id}},
	}
	for _, step := range steps {
		if err := db.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
			return nil, err
		}
	}

	res := db.Delete(&models.User{}, id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return reviewed, nil
}
