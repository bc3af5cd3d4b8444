package model

import "gorm.io/gorm"

// SocialMedia is a platform posts are collected from.
type SocialMedia struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;type:varchar(64);not null;comment:platform name"`
}

func (SocialMedia) TableName() string { return "social_media" }

// User is an account on one platform. The same username on two platforms is
// two users.
type User struct {
	gorm.Model
	Username         string  `gorm:"index:idx_user_platform,unique,priority:1;type:varchar(64);not null"`
	SocialMediaID    uint    `gorm:"index:idx_user_platform,unique,priority:2;not null"`
	FirstName        *string `gorm:"type:varchar(64)"`
	LastName         *string `gorm:"type:varchar(64)"`
	BirthCountry     *string `gorm:"type:varchar(64)"`
	ResidenceCountry *string `gorm:"type:varchar(64)"`
	Age              *int
	Gender           *string `gorm:"type:varchar(32)"`
	Verified         bool    `gorm:"not null;default:false"`

	SocialMedia SocialMedia
}

func (User) TableName() string { return "users" }

// Institute is the organisation running a project.
type Institute struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;type:varchar(128);not null"`
}

func (Institute) TableName() string { return "institutes" }
