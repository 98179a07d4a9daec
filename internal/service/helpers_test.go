package service

import (
	"context"
	"sync"
	"testing"

	"uniwiz/internal/cache"
	"uniwiz/internal/repository"
	"uniwiz/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type publishedEvent struct {
	UserID  uint
	Admins  bool
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishUserEvent(_ context.Context, userID uint, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{UserID: userID, Type: eventType, Payload: payload})
	return nil
}

func (p *recordingPublisher) PublishAdminEvent(_ context.Context, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Admins: true, Type: eventType, Payload: payload})
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	db           *gorm.DB
	events       *recordingPublisher
	users        repository.UserRepository
	chats        repository.ChatRepository
	jobs         repository.JobRepository
	apps         repository.ApplicationRepository
	reports      repository.ReportRepository
	reviews      repository.ReviewRepository
	settings     repository.SettingsRepository
	chat         *ChatService
	job          *JobService
	application  *ApplicationService
	moderation   *ModerationService
	review       *ReviewService
	user         *UserService
	siteSettings *SettingsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cache.SetClient(nil)

	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		events:   &recordingPublisher{},
		users:    repository.NewUserRepository(db),
		chats:    repository.NewChatRepository(db),
		jobs:     repository.NewJobRepository(db),
		apps:     repository.NewApplicationRepository(db),
		reports:  repository.NewReportRepository(db),
		reviews:  repository.NewReviewRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
	f.chat = NewChatService(db, f.chats, f.users, f.jobs, f.events)
	f.job = NewJobService(f.jobs)
	f.application = NewApplicationService(db, f.apps, f.jobs)
	f.moderation = NewModerationService(db, f.reports, f.users, f.chats, f.jobs, f.events)
	f.review = NewReviewService(f.reviews, f.users)
	f.user = NewUserService(db, f.users)
	f.user.SetHashCost(bcrypt.MinCost)

	var err error
	f.siteSettings, err = NewSettingsService(f.settings)
	require.NoError(t, err)
	return f
}

// withRedis installs a miniredis-backed cache client for the test.
func withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}
