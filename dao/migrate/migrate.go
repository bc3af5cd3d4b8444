// Package migrate owns the versioned schema of the analysis database.
package migrate

import (
	"fmt"

	"github.com/waltherrera/Social-Media-Database/dao/model"
	"github.com/waltherrera/Social-Media-Database/logutils"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// migrations lists schema changes made after the first release, oldest
// first. A fresh database skips them all through InitSchema.
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{}
}

// Models is the full current schema in creation order.
func Models() []any {
	return []any{
		&model.SocialMedia{},
		&model.User{},
		&model.Institute{},
		&model.Post{},
		&model.Repost{},
		&model.Project{},
		&model.ProjectPost{},
		&model.ProjectField{},
		&model.AnalysisResult{},
	}
}

// Run brings the schema up to date. A fresh database gets every table from the
// current models in one step and all migrations are marked as applied.
func Run(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	m.InitSchema(func(tx *gorm.DB) error {
		return tx.AutoMigrate(Models()...)
	})
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("could not migrate: %w", err)
	}
	logutils.Log.Info("schema migrated")
	return nil
}
