package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/waltherrera/Social-Media-Database/dao/model"

	"gorm.io/gorm"
)

// ResolveField returns the id of the named field in the project, creating the
// field on first use.
func (s *Service) ResolveField(ctx context.Context, projectID uint, name string) (fieldID uint, created bool, err error) {
	if projectID == 0 {
		return 0, false, validationf("project_id and field_name required")
	}
	name, err = normalizeFieldName(name)
	if err != nil {
		return 0, false, err
	}
	err = s.transaction(ctx, "resolve field", func(tx *gorm.DB) error {
		if err := requireProject(tx, projectID); err != nil {
			return err
		}
		fieldID, created, err = resolveField(tx, projectID, name)
		return err
	})
	return fieldID, created, err
}

// normalizeFieldName trims surrounding whitespace; field names are otherwise
// exact and case-sensitive.
func normalizeFieldName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationf("field name must not be empty")
	}
	return name, nil
}

func resolveField(tx *gorm.DB, projectID uint, name string) (uint, bool, error) {
	field, err := findField(tx, projectID, name)
	if err == nil {
		return field.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}
	field = &model.ProjectField{ProjectID: projectID, Name: name}
	created, err := insertIgnore(tx, field, "project_id", "name")
	if err != nil {
		return 0, false, err
	}
	if created {
		return field.ID, true, nil
	}
	field, err = findField(tx, projectID, name)
	if err != nil {
		return 0, false, err
	}
	return field.ID, false, nil
}

func findField(tx *gorm.DB, projectID uint, name string) (*model.ProjectField, error) {
	var field model.ProjectField
	if err := tx.Where("project_id = ? AND name = ?", projectID, name).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}
