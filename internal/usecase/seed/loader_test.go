package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/uow"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

const sampleFixtures = `
version = 1

[[users]]
handle = "ann"
password = "pw-ann"
first_name = "Ann"
last_name = "Lee"

[[users]]
handle = "ben"
password = "pw-ben"
first_name = "Ben"
last_name = "Cho"

[[crashes]]
key = "broadway"
creator = "ann"
occurred_at = 2024-03-01T10:00:00Z
borough = "MANHATTAN"
on_street = "Broadway"
summary = "Taxi ran a red light"
persons_injured = 2

  [[crashes.vehicles]]
  plate_id = "ABC123"
  type = "Sedan"
  make = "Toyota"
  model = "Camry"
  year = 2019

[[votes]]
crash = "broadway"
voter = "ben"
vote = "verify"

[[comments]]
key = "first"
crash = "broadway"
author = "ben"
text = "I saw it"

[[comments]]
crash = "broadway"
author = "ann"
text = "Thanks"
reply_to = "first"

[[ratings]]
target = "ann"
rater = "ben"
direction = "up"
`

type services struct {
	users   *user.Service
	crashes *crash.Service
	loader  *Loader
}

func setupLoader(t *testing.T) services {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "seed.sqlite")
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
	if err := db.AutoMigrate(&model.Crash{}, &model.User{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	userRepo := sqliterepo.NewUserRepository(db)
	crashRepo := sqliterepo.NewCrashRepository(db)
	uow := sqliteuow.NewUnitOfWork(db)

	s := services{
		users:   user.NewService(userRepo, uow, user.Options{PasswordCost: bcrypt.MinCost}),
		crashes: crash.NewService(crashRepo, userRepo, uow, nil, crash.Limits{}),
	}
	s.loader = NewLoader(s.users, s.crashes, crash.NewVoteLimiter(s.crashes, 10))
	return s
}

func TestLoadFixtures(t *testing.T) {
	s := setupLoader(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "fixtures.toml")
	if err := os.WriteFile(path, []byte(sampleFixtures), 0o644); err != nil {
		t.Fatalf("write fixtures: %v", err)
	}

	summary, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := Summary{UsersCreated: 2, Crashes: 1, Votes: 1, Comments: 2, Ratings: 1}
	if summary != want {
		t.Fatalf("LoadFile() summary = %+v, want %+v", summary, want)
	}

	items, err := s.crashes.ListCrashes(ctx, 0)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListCrashes() = %+v err = %v", items, err)
	}
	detail, err := s.crashes.GetCrash(ctx, crash.GetCrashInput{CrashID: items[0].CrashID})
	if err != nil {
		t.Fatalf("GetCrash() error = %v", err)
	}
	if detail.Crash.AccuracyPercentage != 100 || len(detail.TopLevel) != 1 || len(detail.Replies) != 1 {
		t.Fatalf("GetCrash() = %+v", detail)
	}
	if v := detail.Crash.Vehicles; len(v) != 1 || v[0].Year == nil || *v[0].Year != 2019 {
		t.Fatalf("GetCrash() vehicles = %+v", v)
	}

	ann, err := s.users.GetProfileByHandle(ctx, "ann")
	if err != nil {
		t.Fatalf("GetProfileByHandle() error = %v", err)
	}
	if ann.SocialCreditRating != 1 || len(ann.SubmittedCrashIDs) != 1 {
		t.Fatalf("ann profile = %+v", ann)
	}

	again, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		t.Fatalf("LoadFile(again) error = %v", err)
	}
	if again.UsersExisting != 2 || again.UsersCreated != 0 {
		t.Fatalf("LoadFile(again) summary = %+v", again)
	}
}

func TestLoadRejectsBrokenReferences(t *testing.T) {
	s := setupLoader(t)

	cases := map[string]string{
		"version":  "version = 2\n",
		"creator":  "version = 1\n[[crashes]]\nkey = \"a\"\ncreator = \"ghost\"\n",
		"vote":     "version = 1\n[[users]]\nhandle = \"ann\"\n[[votes]]\ncrash = \"nope\"\nvoter = \"ann\"\nvote = \"verify\"\n",
		"reply_to": "version = 1\n[[users]]\nhandle = \"ann\"\n[[crashes]]\nkey = \"a\"\ncreator = \"ann\"\n[[comments]]\ncrash = \"a\"\nauthor = \"ann\"\ntext = \"x\"\nreply_to = \"later\"\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := s.loader.Load(context.Background(), []byte(raw), FormatTOML); err == nil {
				t.Fatalf("Load() expected error")
			}
		})
	}

	users, err := s.users.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("ListUsers() = %d, broken fixtures must not write", len(users))
	}
}

func TestLoadFileRequiresPath(t *testing.T) {
	s := setupLoader(t)

	if _, err := s.loader.LoadFile(context.Background(), "  "); err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("LoadFile() error = %v", err)
	}
}

const sampleYAMLFixtures = `
version: 1
users:
  - handle: cara
    password: pw-cara
    first_name: Cara
    last_name: Diaz
  - handle: dev
    password: pw-dev
    first_name: Dev
    last_name: Shah
crashes:
  - key: flatbush
    creator: cara
    occurred_at: 2024-05-02T08:30:00Z
    borough: BROOKLYN
    on_street: Flatbush Ave
    cyclists_injured: 1
votes:
  - crash: flatbush
    voter: dev
    vote: reject
`

func TestLoadFileYAML(t *testing.T) {
	s := setupLoader(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "fixtures.yml")
	if err := os.WriteFile(path, []byte(sampleYAMLFixtures), 0o644); err != nil {
		t.Fatalf("write fixtures: %v", err)
	}

	summary, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if summary.UsersCreated != 2 || summary.Crashes != 1 || summary.Votes != 1 {
		t.Fatalf("LoadFile() summary = %+v", summary)
	}

	items, err := s.crashes.ListCrashes(ctx, 0)
	if err != nil {
		t.Fatalf("ListCrashes() error = %v", err)
	}
	if len(items) != 1 || items[0].Borough != "BROOKLYN" || items[0].AccuracyPercentage != 0 || items[0].WitnessCount != 1 {
		t.Fatalf("ListCrashes() = %+v", items)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"seed.toml":    FormatTOML,
		"seed.YAML":    FormatYAML,
		"dir/seed.yml": FormatYAML,
		"no-extension": FormatTOML,
	}
	for path, want := range cases {
		if got := FormatFromPath(path); got != want {
			t.Fatalf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	s := setupLoader(t)

	if _, err := s.loader.Load(context.Background(), []byte("version = 1"), Format("json")); err == nil {
		t.Fatalf("Load() expected error for unknown format")
	}
}
