// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"uniwiz/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every seeded account.
const DefaultPassword = "Uniwiz-2024"

var (
	universities = []string{
		"University of Colombo", "University of Moratuwa", "University of Peradeniya",
		"University of Kelaniya", "University of Sri Jayewardenepura", "SLIIT", "NSBM Green University",
	}
	fieldsOfStudy = []string{
		"Computer Science", "Software Engineering", "Graphic Design", "Business Management",
		"Marketing", "English Literature", "Accounting", "Statistics",
	}
	jobTypes      = []string{"part-time", "freelance", "internship", "one-time", "remote"}
	paymentRanges = []string{
		"Rs. 1,500 per hour", "Rs. 15,000 - Rs. 25,000", "Rs. 40,000/month",
		"5000", "LKR 2000 - 3500", "Negotiable",
	}
)

// FactoryOptions tune how entities are generated.
type FactoryOptions struct {
	// HashCost is the bcrypt cost of seeded passwords. Zero means bcrypt.DefaultCost.
	HashCost int
	// MaxDays spreads created_at and deadlines over this many days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts FactoryOptions
	seq  atomic.Uint64
	hash string
}

// NewFactory creates a Factory bound to db. The seeded password is hashed
// once and shared by every generated user.
func NewFactory(db *gorm.DB, opts FactoryOptions) (*Factory, error) {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 60
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, hash: string(hash)}, nil
}

func (f *Factory) email(role models.UserRole, first string) string {
	n := f.seq.Add(1)
	return fmt.Sprintf("%s.%s%d@uniwiz.dev", role, strings.ToLower(first), n)
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(gofakeit.Number(0, f.opts.MaxDays*24)) * time.Hour
	return time.Now().UTC().Add(-back)
}

// CreateStudent persists a student with a filled-in profile.
func (f *Factory) CreateStudent(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	user := &models.User{
		Email:           f.email(models.RoleStudent, first),
		Password:        f.hash,
		Role:            models.RoleStudent,
		Status:          models.UserStatusActive,
		FirstName:       first,
		LastName:        gofakeit.LastName(),
		ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CreatedAt:       f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	profile := &models.StudentProfile{
		University:   gofakeit.RandomString(universities),
		FieldOfStudy: gofakeit.RandomString(fieldsOfStudy),
		YearOfStudy:  fmt.Sprintf("Year %d", gofakeit.Number(1, 4)),
		Skills:       strings.Join([]string{gofakeit.Hobby(), gofakeit.ProgrammingLanguage(), gofakeit.Language()}, ", "),
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}
	user.StudentProfile = profile
	return user, nil
}

// CreatePublisher persists a publisher with a company profile.
func (f *Factory) CreatePublisher(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	company := gofakeit.Company()
	user := &models.User{
		Email:       f.email(models.RolePublisher, first),
		Password:    f.hash,
		Role:        models.RolePublisher,
		Status:      models.UserStatusActive,
		IsVerified:  gofakeit.Bool(),
		FirstName:   first,
		LastName:    gofakeit.LastName(),
		CompanyName: company,
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	slug := strings.ToLower(strings.Join(strings.Fields(user.CompanyName), ""))
	profile := &models.PublisherProfile{
		About:       gofakeit.Paragraph(1, 3, 12, " "),
		Website:     gofakeit.URL(),
		Address:     fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City()),
		LinkedinURL: "https://www.linkedin.com/company/" + slug,
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}
	user.PublisherProfile = profile
	return user, nil
}

// CreateJob persists a job for publisher. The status is mostly active; some
// deadlines are already in the past so expired listings show up too.
func (f *Factory) CreateJob(publisher *models.User, categories []models.JobCategory, overrides ...func(*models.Job)) (*models.Job, error) {
	deadline := time.Now().UTC().Add(time.Duration(gofakeit.Number(-7*24, f.opts.MaxDays*24)) * time.Hour)
	job := &models.Job{
		PublisherID:         publisher.ID,
		Title:               gofakeit.JobTitle(),
		Description:         gofakeit.Paragraph(2, 4, 14, "\n\n"),
		Location:            gofakeit.City(),
		JobType:             gofakeit.RandomString(jobTypes),
		PaymentRange:        gofakeit.RandomString(paymentRanges),
		Vacancies:           gofakeit.Number(1, 5),
		ApplicationDeadline: &deadline,
		Status:              randomJobStatus(),
		CreatedAt:           f.pastTime(),
	}
	if len(categories) > 0 {
		id := categories[gofakeit.Number(0, len(categories)-1)].ID
		job.CategoryID = &id
	}
	for _, override := range overrides {
		override(job)
	}

	if err := f.db.Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func randomJobStatus() models.JobStatus {
	switch n := gofakeit.Number(1, 10); {
	case n <= 7:
		return models.JobStatusActive
	case n <= 9:
		return models.JobStatusDraft
	default:
		return models.JobStatusClosed
	}
}

// Proposal returns a cover letter for an application.
func Proposal() string {
	return fmt.Sprintf("Hi, I'm interested in this role. %s %s",
		gofakeit.Sentence(12), gofakeit.Sentence(10))
}

// ChatLine returns a short chat message.
func ChatLine() string {
	return gofakeit.Sentence(gofakeit.Number(4, 14))
}

// ReviewText returns the body of a company review.
func ReviewText() string {
	return gofakeit.Paragraph(1, 2, 10, " ")
}
