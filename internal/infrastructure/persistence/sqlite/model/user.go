package model

import (
	"gorm.io/datatypes"

	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
)

type User struct {
	UserID             string                                 `gorm:"column:user_id;type:text;primaryKey"`
	Handle             string                                 `gorm:"column:handle;type:text;not null;uniqueIndex"`
	FirstName          string                                 `gorm:"column:first_name;type:text;not null"`
	LastName           string                                 `gorm:"column:last_name;type:text;not null"`
	Email              string                                 `gorm:"column:email;type:text;not null"`
	PasswordHash       string                                 `gorm:"column:password_hash;type:text;not null"`
	Gender             string                                 `gorm:"column:gender;type:text;not null"`
	City               string                                 `gorm:"column:city;type:text;not null"`
	State              string                                 `gorm:"column:state;type:text;not null"`
	DateOfBirth        string                                 `gorm:"column:date_of_birth;type:text;not null"`
	SocialCreditRating int                                    `gorm:"column:social_credit_rating;not null;default:0"`
	Ratings            datatypes.JSONSlice[domainuser.Rating] `gorm:"column:ratings;not null"`
	SubmittedCrashIDs  datatypes.JSONSlice[string]            `gorm:"column:submitted_crash_ids;not null"`
	CommentedCrashIDs  datatypes.JSONSlice[string]            `gorm:"column:commented_crash_ids;not null"`
	CrashesWitnessed   int                                    `gorm:"column:crashes_witnessed;not null;default:0"`
	SignupDate         string                                 `gorm:"column:signup_date;type:text;not null"`
	LastLogin          *string                                `gorm:"column:last_login;type:text"`
	Revision           uint64                                 `gorm:"column:revision;not null;default:1"`
}

func (User) TableName() string {
	return "users"
}
