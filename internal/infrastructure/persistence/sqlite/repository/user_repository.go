package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/model"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user ports.User) (ports.User, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.User{}, err
	}

	var existing int64
	if err := db.Model(&model.User{}).Where("handle = ?", user.Handle).Count(&existing).Error; err != nil {
		return ports.User{}, dbError(err, "check handle")
	}
	if existing > 0 {
		return ports.User{}, domainuser.ErrHandleTaken
	}

	row := toUserRow(user)
	row.Revision = 1
	if err := db.Create(&row).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return ports.User{}, domainuser.ErrHandleTaken
		}
		return ports.User{}, dbError(err, "insert user")
	}
	return mapUser(row), nil
}

func (r *UserRepository) GetUser(ctx context.Context, userID string) (ports.User, error) {
	return r.getBy(ctx, "user_id = ?", userID)
}

func (r *UserRepository) GetUserByHandle(ctx context.Context, handle string) (ports.User, error) {
	return r.getBy(ctx, "handle = ?", domainuser.NormalizeHandle(handle))
}

func (r *UserRepository) getBy(ctx context.Context, cond string, arg string) (ports.User, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.User{}, err
	}

	var row model.User
	if err := db.Where(cond, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, ports.ErrUserNotFound
		}
		return ports.User{}, dbError(err, "query user")
	}
	return mapUser(row), nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]ports.User, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.User
	if err := db.Model(&model.User{}).Order("last_name desc").Order("first_name asc").Find(&rows).Error; err != nil {
		return nil, dbError(err, "query users")
	}

	items := make([]ports.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapUser(row))
	}
	return items, nil
}

func (r *UserRepository) SaveRatings(ctx context.Context, userID string, revision uint64, ratings []domainuser.Rating, score int) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.User{}).
		Where("user_id = ? AND revision = ?", userID, revision).
		Updates(map[string]any{
			"ratings":              datatypes.NewJSONSlice(nonNil(ratings)),
			"social_credit_rating": score,
			"revision":             gorm.Expr("revision + 1"),
		})
	if result.Error != nil {
		return dbError(result.Error, "save ratings")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(db, userID)
	if err != nil {
		return err
	}
	if exists {
		return ports.ErrRevisionConflict
	}
	return ports.ErrNoUpdatePerformed
}

func (r *UserRepository) IncrementCrashesWitnessed(ctx context.Context, userID string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("crashes_witnessed", gorm.Expr("crashes_witnessed + 1"))
	if result.Error != nil {
		return dbError(result.Error, "increment crashes witnessed")
	}
	if result.RowsAffected == 0 {
		return ports.ErrNoUpdatePerformed
	}
	return nil
}

func (r *UserRepository) AddCommentedCrash(ctx context.Context, userID string, crashID string) error {
	return r.addToSet(ctx, "commented_crash_ids", userID, crashID)
}

func (r *UserRepository) AddSubmittedCrash(ctx context.Context, userID string, crashID string) error {
	return r.addToSet(ctx, "submitted_crash_ids", userID, crashID)
}

// addToSet appends value to a JSON array column unless already present.
func (r *UserRepository) addToSet(ctx context.Context, column string, userID string, value string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.User{}).
		Where("user_id = ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM json_each(users."+column+") AS s WHERE s.value = ?)", value).
		Update(column, gorm.Expr("json_insert("+column+", '$[#]', ?)", value))
	if result.Error != nil {
		return dbError(result.Error, "add to "+column)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(db, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ports.ErrNoUpdatePerformed
	}
	return nil
}

func (r *UserRepository) SetLastLogin(ctx context.Context, userID string, at string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.User{}).Where("user_id = ?", userID).Update("last_login", at)
	if result.Error != nil {
		return dbError(result.Error, "set last login")
	}
	if result.RowsAffected == 0 {
		return ports.ErrNoUpdatePerformed
	}
	return nil
}

func (r *UserRepository) exists(db *gorm.DB, userID string) (bool, error) {
	var count int64
	if err := db.Model(&model.User{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, dbError(err, "count user")
	}
	return count > 0, nil
}

func toUserRow(user ports.User) model.User {
	return model.User{
		UserID:             user.UserID,
		Handle:             user.Handle,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		PasswordHash:       user.PasswordHash,
		Gender:             user.Gender,
		City:               user.City,
		State:              user.State,
		DateOfBirth:        user.DateOfBirth,
		SocialCreditRating: user.SocialCreditRating,
		Ratings:            datatypes.NewJSONSlice(nonNil(user.Ratings)),
		SubmittedCrashIDs:  datatypes.NewJSONSlice(nonNil(user.SubmittedCrashIDs)),
		CommentedCrashIDs:  datatypes.NewJSONSlice(nonNil(user.CommentedCrashIDs)),
		CrashesWitnessed:   user.CrashesWitnessed,
		SignupDate:         user.SignupDate,
		LastLogin:          user.LastLogin,
		Revision:           user.Revision,
	}
}

func mapUser(row model.User) ports.User {
	return ports.User{
		UserID:             row.UserID,
		Handle:             row.Handle,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Email:              row.Email,
		PasswordHash:       row.PasswordHash,
		Gender:             row.Gender,
		City:               row.City,
		State:              row.State,
		DateOfBirth:        row.DateOfBirth,
		SocialCreditRating: row.SocialCreditRating,
		Ratings:            nonNil([]domainuser.Rating(row.Ratings)),
		SubmittedCrashIDs:  nonNil([]string(row.SubmittedCrashIDs)),
		CommentedCrashIDs:  nonNil([]string(row.CommentedCrashIDs)),
		CrashesWitnessed:   row.CrashesWitnessed,
		SignupDate:         row.SignupDate,
		LastLogin:          row.LastLogin,
		Revision:           row.Revision,
	}
}
