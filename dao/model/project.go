package model

import (
	"time"

	"gorm.io/gorm"
)

// Project is a research study over a date window. It owns a private
// namespace of analysis fields.
type Project struct {
	gorm.Model
	Name             string    `gorm:"uniqueIndex;type:varchar(128);not null"`
	ManagerFirstName *string   `gorm:"type:varchar(64)"`
	ManagerLastName  *string   `gorm:"type:varchar(64)"`
	InstituteID      uint      `gorm:"index;not null"`
	StartDate        time.Time `gorm:"type:date;not null"`
	EndDate          time.Time `gorm:"type:date;not null"`

	Institute     Institute
	ProjectPosts  []ProjectPost
	ProjectFields []ProjectField
}

func (Project) TableName() string { return "projects" }

// ProjectPost links a post to a project, at most once per pair. Its ID keys
// every analysis value recorded for the pair.
type ProjectPost struct {
	gorm.Model
	ProjectID uint `gorm:"index:idx_project_post,unique,priority:1;not null"`
	PostID    uint `gorm:"index:idx_project_post,unique,priority:2;index;not null"`
}

func (ProjectPost) TableName() string { return "project_posts" }

// ProjectField is a named analysis dimension, unique per project.
type ProjectField struct {
	gorm.Model
	ProjectID uint   `gorm:"index:idx_project_field,unique,priority:1;not null"`
	Name      string `gorm:"index:idx_project_field,unique,priority:2;type:varchar(128);not null"`
}

func (ProjectField) TableName() string { return "project_fields" }

// AnalysisResult holds one opaque value per (link, field).
type AnalysisResult struct {
	gorm.Model
	ProjectPostID uint   `gorm:"index:idx_result_link_field,unique,priority:1;not null"`
	FieldID       uint   `gorm:"index:idx_result_link_field,unique,priority:2;index;not null"`
	Value         string `gorm:"type:text;not null"`
}

func (AnalysisResult) TableName() string { return "analysis_results" }
