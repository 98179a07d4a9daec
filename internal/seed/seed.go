package seed

import (
	"context"
	"fmt"
	"log/slog"

	"uniwiz/internal/middleware"
	"uniwiz/internal/models"
	"uniwiz/internal/repository"
	"uniwiz/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumStudents      int
	NumPublishers    int
	JobsPerPublisher int
	// ApplicationsPerStudent is an upper bound; closed and expired jobs are skipped.
	ApplicationsPerStudent int
	NumReports             int
	ShouldClean            bool
	Factory                FactoryOptions
}

// Summary counts what a run created.
type Summary struct {
	Students      int
	Publishers    int
	Jobs          int
	Applications  int
	Conversations int
	Messages      int
	Reviews       int
	Reports       int
}

// Seeder populates a database through the service layer so seeded rows obey
// the same rules as user-created ones.
type Seeder struct {
	db           *gorm.DB
	opts         Options
	factory      *Factory
	chat         *service.ChatService
	applications *service.ApplicationService
	reviews      *service.ReviewService
	moderation   *service.ModerationService
}

// NewSeeder wires a Seeder to db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	factory, err := NewFactory(db, opts.Factory)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	chatRepo := repository.NewChatRepository(db)

	return &Seeder{
		db:           db,
		opts:         opts,
		factory:      factory,
		chat:         service.NewChatService(db, chatRepo, userRepo, jobRepo, nil),
		applications: service.NewApplicationService(db, repository.NewApplicationRepository(db), jobRepo),
		reviews:      service.NewReviewService(repository.NewReviewRepository(db), userRepo),
		moderation: service.NewModerationService(db, repository.NewReportRepository(db),
			userRepo, chatRepo, jobRepo, nil),
	}, nil
}

// Run seeds the database and reports what it created.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	log := middleware.Logger.With(slog.String("component", "seed"))
	log.InfoContext(ctx, "seeding database",
		slog.Int("students", s.opts.NumStudents),
		slog.Int("publishers", s.opts.NumPublishers))

	if s.opts.ShouldClean {
		if err := ClearAll(s.db); err != nil {
			return nil, fmt.Errorf("clear existing data: %w", err)
		}
	}

	var categories []models.JobCategory
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	sum := &Summary{}

	publishers := make([]*models.User, 0, s.opts.NumPublishers)
	for i := 0; i < s.opts.NumPublishers; i++ {
		p, err := s.factory.CreatePublisher()
		if err != nil {
			return sum, fmt.Errorf("create publisher: %w", err)
		}
		publishers = append(publishers, p)
	}
	sum.Publishers = len(publishers)

	students := make([]*models.User, 0, s.opts.NumStudents)
	for i := 0; i < s.opts.NumStudents; i++ {
		st, err := s.factory.CreateStudent()
		if err != nil {
			return sum, fmt.Errorf("create student: %w", err)
		}
		students = append(students, st)
	}
	sum.Students = len(students)

	var jobs []*models.Job
	for _, p := range publishers {
		for i := 0; i < s.opts.JobsPerPublisher; i++ {
			job, err := s.factory.CreateJob(p, categories)
			if err != nil {
				return sum, fmt.Errorf("create job: %w", err)
			}
			jobs = append(jobs, job)
		}
	}
	sum.Jobs = len(jobs)
	log.InfoContext(ctx, "users and jobs created", slog.Int("jobs", sum.Jobs))

	conversations := map[uint]bool{}
	if len(jobs) > 0 {
		for _, st := range students {
			for i := 0; i < s.opts.ApplicationsPerStudent; i++ {
				job := jobs[gofakeit.Number(0, len(jobs)-1)]
				app, err := s.applications.Apply(ctx, st.ID, job.ID, Proposal())
				if err != nil {
					// Closed, expired and repeat applications are refused.
					log.DebugContext(ctx, "application skipped", slog.String("error", err.Error()))
					continue
				}
				sum.Applications++

				if err := s.review(ctx, app, job); err != nil {
					return sum, err
				}

				convID, sent, err := s.converse(ctx, job, st)
				if err != nil {
					return sum, err
				}
				if !conversations[convID] {
					conversations[convID] = true
					sum.Conversations++
				}
				sum.Messages += sent
			}
		}
	}

	for _, st := range students {
		if len(publishers) == 0 || !gofakeit.Bool() {
			continue
		}
		p := publishers[gofakeit.Number(0, len(publishers)-1)]
		if _, err := s.reviews.Upsert(ctx, st.ID, p.ID, gofakeit.Number(models.MinRating, models.MaxRating), ReviewText()); err != nil {
			return sum, fmt.Errorf("create review: %w", err)
		}
		sum.Reviews++
	}

	reports, err := s.report(ctx, s.opts.NumReports)
	if err != nil {
		return sum, err
	}
	sum.Reports = reports

	log.InfoContext(ctx, "seeding complete",
		slog.Int("applications", sum.Applications),
		slog.Int("conversations", sum.Conversations),
		slog.Int("messages", sum.Messages),
		slog.Int("reviews", sum.Reviews),
		slog.Int("reports", sum.Reports))
	return sum, nil
}

// review moves some applications past pending the way a publisher would.
func (s *Seeder) review(ctx context.Context, app *models.JobApplication, job *models.Job) error {
	publisher := service.Actor{ID: job.PublisherID, Role: models.RolePublisher}
	switch gofakeit.Number(0, 3) {
	case 0:
		return nil
	case 1:
		// Opening the applicant list marks pending applications viewed.
		_, err := s.applications.ListApplicants(ctx, job.ID, publisher)
		return err
	case 2:
		_, err := s.applications.UpdateStatus(ctx, app.ID, models.ApplicationAccepted, publisher)
		return err
	default:
		_, err := s.applications.UpdateStatus(ctx, app.ID, models.ApplicationRejected, publisher)
		return err
	}
}

// converse exchanges a few messages about job between its publisher and student.
func (s *Seeder) converse(ctx context.Context, job *models.Job, student *models.User) (uint, int, error) {
	n := gofakeit.Number(1, 4)
	var convID uint
	for i := 0; i < n; i++ {
		in := service.SendMessageInput{SenderID: job.PublisherID, ReceiverID: student.ID, JobID: job.ID, Text: ChatLine()}
		if i%2 == 1 {
			in.SenderID, in.ReceiverID = student.ID, job.PublisherID
		}
		res, err := s.chat.SendMessage(ctx, in)
		if err != nil {
			return 0, i, fmt.Errorf("send message: %w", err)
		}
		convID = res.ConversationID
	}
	return convID, n, nil
}

// report files up to n reports, one per conversation, by the second
// participant against the first.
func (s *Seeder) report(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	var convs []models.Conversation
	if err := s.db.WithContext(ctx).Order("id").Limit(n).Find(&convs).Error; err != nil {
		return 0, fmt.Errorf("load conversations: %w", err)
	}

	created := 0
	for i := range convs {
		c := &convs[i]
		if _, err := s.moderation.CreateReport(ctx, c.UserTwoID, service.CreateReportInput{
			ConversationID: c.ID,
			ReportedUserID: c.UserOneID,
			Reason:         gofakeit.RandomString([]string{"Spam", "Asked for payment up front", "Rude messages", "Fake job offer"}),
		}); err != nil {
			return created, fmt.Errorf("create report: %w", err)
		}
		created++
	}
	return created, nil
}

// ClearAll deletes seeded and user-created rows in dependency order. Job
// categories and site settings are kept.
func ClearAll(db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	all := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&models.Report{},
		&models.CompanyReview{},
		&models.Message{},
		&models.Conversation{},
		&models.JobApplication{},
		&models.Job{},
		&models.PublisherProfile{},
		&models.StudentProfile{},
		&models.User{},
	} {
		if err := all.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
