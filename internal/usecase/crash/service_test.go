package crash

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/stamp"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/uow"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

type testCache struct {
	data map[string]string
}

func newTestCache() *testCache {
	return &testCache{
		data: make(map[string]string),
	}
}

func (c *testCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *testCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *testCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type testEnv struct {
	svc     *Service
	cache   *testCache
	crashes *sqliterepo.CrashRepository
	users   *sqliterepo.UserRepository
	db      *gorm.DB
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "crash.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Crash{}, &model.User{}, &model.CacheEntry{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func setupService(t *testing.T, limits Limits) testEnv {
	t.Helper()

	db := setupDB(t)
	env := testEnv{
		cache:   newTestCache(),
		crashes: sqliterepo.NewCrashRepository(db),
		users:   sqliterepo.NewUserRepository(db),
		db:      db,
	}
	env.svc = NewService(env.crashes, env.users, sqliteuow.NewUnitOfWork(db), env.cache, limits)
	return env
}

func (e testEnv) createUser(t *testing.T, handle string, first string, last string) ports.User {
	t.Helper()

	user, err := e.users.CreateUser(context.Background(), ports.User{
		UserID:       ids.New(),
		Handle:       handle,
		FirstName:    first,
		LastName:     last,
		Email:        handle + "@example.com",
		PasswordHash: "x",
		SignupDate:   stamp.Format(time.Now()),
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) error = %v", handle, err)
	}
	return user
}

func (e testEnv) createCrash(t *testing.T, creatorID string) CrashDetail {
	t.Helper()

	detail, err := e.svc.CreateCrash(context.Background(), CreateCrashInput{
		CreatorID:   creatorID,
		OccurredAt:  time.Now().Add(-time.Hour),
		Borough:     "MANHATTAN",
		OnStreet:    "Broadway",
		CrossStreet: "W 42nd St",
		Summary:     "Taxi ran a red light",
	})
	if err != nil {
		t.Fatalf("CreateCrash() error = %v", err)
	}
	return detail
}

func (e testEnv) reloadUser(t *testing.T, userID string) ports.User {
	t.Helper()

	user, err := e.users.GetUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	return user
}

func TestNewServiceAppliesDefaultLimits(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, Limits{})
	limits := svc.Limits()
	if limits.MaxVotesPerUser != 10 || limits.MaxCommentsPerAuthor != domaincrash.DefaultMaxCommentsPerAuthor || limits.MaxUpdateAttempts != 3 {
		t.Fatalf("Limits() = %+v", limits)
	}
}

func TestServiceRequiresContext(t *testing.T) {
	env := setupService(t, Limits{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := env.svc.ListCrashes(ctx, 0); err == nil {
		t.Fatalf("ListCrashes(canceled) expected error")
	}
}
