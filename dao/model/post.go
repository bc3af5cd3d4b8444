package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Location is where a post was written from, all parts optional.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Post is ingested social-media content. The analysis core only reads it.
type Post struct {
	gorm.Model
	UserID        uint      `gorm:"index:idx_post_identity,unique,priority:1;not null"`
	SocialMediaID uint      `gorm:"index:idx_post_identity,unique,priority:2;not null"`
	PostTime      time.Time `gorm:"index:idx_post_identity,unique,priority:3;not null"`
	Content       string    `gorm:"type:text;not null"`
	Likes         int       `gorm:"not null;default:0"`
	Dislikes      int       `gorm:"not null;default:0"`
	Multimedia    bool      `gorm:"not null;default:false"`
	MediaURL      *string   `gorm:"type:varchar(512)"`
	Location      datatypes.JSONType[Location]

	User        User
	SocialMedia SocialMedia
}

func (Post) TableName() string { return "posts" }

// Repost records that RepostPostID is a copy of OriginalPostID.
type Repost struct {
	gorm.Model
	OriginalPostID uint      `gorm:"index;not null"`
	RepostPostID   uint      `gorm:"uniqueIndex;not null"`
	ReposterID     uint      `gorm:"index;not null"`
	RepostTime     time.Time `gorm:"not null"`
}

func (Repost) TableName() string { return "reposts" }
