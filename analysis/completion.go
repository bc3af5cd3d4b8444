package analysis

import (
	"context"
	"fmt"

	"github.com/waltherrera/Social-Media-Database/dao/model"

	"gorm.io/gorm"
)

// FieldCompletion returns, for every field defined on the project, the share
// of posts that have a value for it, formatted like "37.50%".
//
// A nil postIDs measures against every post linked to the project. A non-nil
// postIDs measures against exactly that set of posts, linked or not; an empty
// set yields 0.00% everywhere.
func (s *Service) FieldCompletion(ctx context.Context, projectID uint, postIDs []uint) (map[string]string, error) {
	if projectID == 0 {
		return nil, validationf("project_id required")
	}
	var completion map[string]string
	err := s.transaction(ctx, "field completion", func(tx *gorm.DB) error {
		if err := requireProject(tx, projectID); err != nil {
			return err
		}
		var err error
		completion, err = fieldCompletion(tx, projectID, postIDs)
		return err
	})
	return completion, err
}

type fieldFill struct {
	FieldID uint
	Filled  int64
}

func fieldCompletion(tx *gorm.DB, projectID uint, postIDs []uint) (map[string]string, error) {
	var fields []model.ProjectField
	if err := tx.Where("project_id = ?", projectID).Order("id").Find(&fields).Error; err != nil {
		return nil, err
	}
	completion := make(map[string]string, len(fields))
	if len(fields) == 0 {
		return completion, nil
	}

	var total int64
	if postIDs == nil {
		if err := tx.Model(&model.ProjectPost{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
			return nil, err
		}
	} else {
		postIDs = uniqueIDs(postIDs)
		total = int64(len(postIDs))
	}

	var fills []fieldFill
	if postIDs == nil || len(postIDs) > 0 {
		q := tx.Model(&model.AnalysisResult{}).
			Select("analysis_results.field_id AS field_id, COUNT(*) AS filled").
			Joins("JOIN project_posts ON project_posts.id = analysis_results.project_post_id").
			Where("project_posts.project_id = ?", projectID)
		if postIDs != nil {
			q = q.Where("project_posts.post_id IN ?", postIDs)
		}
		if err := q.Group("analysis_results.field_id").Scan(&fills).Error; err != nil {
			return nil, err
		}
	}
	filled := make(map[uint]int64, len(fills))
	for _, f := range fills {
		filled[f.FieldID] = f.Filled
	}

	for _, f := range fields {
		completion[f.Name] = formatPercent(filled[f.ID], total)
	}
	return completion, nil
}

func formatPercent(filled, total int64) string {
	if total == 0 {
		total = 1
	}
	return fmt.Sprintf("%.2f%%", float64(filled)/float64(total)*100)
}
