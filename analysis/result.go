package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/waltherrera/Social-Media-Database/dao/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordOutcome describes what a RecordResults call changed.
type RecordOutcome struct {
	LinkID        uint     `json:"link_id"`
	LinkCreated   bool     `json:"link_created"`
	FieldsCreated []string `json:"fields_created"`
	ValuesCreated int      `json:"values_created"`
	ValuesUpdated int      `json:"values_updated"`
}

// Created reports whether the call added any row rather than only
// overwriting existing values.
func (o *RecordOutcome) Created() bool {
	return o.LinkCreated || len(o.FieldsCreated) > 0 || o.ValuesCreated > 0
}

// RecordResults stores one value per named field for the (project, post)
// pair. The link and any unknown fields are created on the way; a value
// already present for a field is replaced. Values are kept as text.
func (s *Service) RecordResults(ctx context.Context, projectID, postID uint, values map[string]any) (*RecordOutcome, error) {
	if projectID == 0 || postID == 0 || len(values) == 0 {
		return nil, validationf("project_id, post_id, and results are required")
	}
	names := make([]string, 0, len(values))
	text := make(map[string]string, len(values))
	for raw, v := range values {
		name, err := normalizeFieldName(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := text[name]; dup {
			return nil, validationf("field %q given more than once", name)
		}
		str, err := coerceValue(v)
		if err != nil {
			return nil, validationf("field %q: %v", name, err)
		}
		names = append(names, name)
		text[name] = str
	}
	// fixed order so concurrent writers touch field rows in the same sequence
	sort.Strings(names)

	out := &RecordOutcome{FieldsCreated: []string{}}
	err := s.transaction(ctx, "record results", func(tx *gorm.DB) error {
		linkID, linkCreated, err := ensureLink(tx, projectID, postID)
		if err != nil {
			return err
		}
		out.LinkID, out.LinkCreated = linkID, linkCreated

		var filled []uint
		if err := tx.Model(&model.AnalysisResult{}).Where("project_post_id = ?", linkID).
			Pluck("field_id", &filled).Error; err != nil {
			return err
		}
		hasValue := make(map[uint]bool, len(filled))
		for _, id := range filled {
			hasValue[id] = true
		}

		for _, name := range names {
			fieldID, fieldCreated, err := resolveField(tx, projectID, name)
			if err != nil {
				return err
			}
			if fieldCreated {
				out.FieldsCreated = append(out.FieldsCreated, name)
			}
			if err := upsertResult(tx, linkID, fieldID, text[name]); err != nil {
				return err
			}
			if hasValue[fieldID] {
				out.ValuesUpdated++
			} else {
				out.ValuesCreated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func upsertResult(tx *gorm.DB, linkID, fieldID uint, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_post_id"}, {Name: "field_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.AnalysisResult{
		ProjectPostID: linkID,
		FieldID:       fieldID,
		Value:         value,
	}).Error
}

// coerceValue turns a decoded JSON value into the text stored for it.
// Strings and json.Number literals are kept verbatim; other numbers,
// booleans, arrays and objects are stored as their compact JSON text.
func coerceValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", errors.New("value must not be null")
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
