package analysis

import (
	"context"
	"errors"

	"github.com/waltherrera/Social-Media-Database/dao/model"

	"gorm.io/gorm"
)

// EnsureLink returns the link between a project and a post, creating it when
// missing. created is false when the link already existed.
func (s *Service) EnsureLink(ctx context.Context, projectID, postID uint) (linkID uint, created bool, err error) {
	if projectID == 0 || postID == 0 {
		return 0, false, validationf("project_id and post_id required")
	}
	err = s.transaction(ctx, "ensure link", func(tx *gorm.DB) error {
		linkID, created, err = ensureLink(tx, projectID, postID)
		return err
	})
	return linkID, created, err
}

// LinkPosts links every id in postIDs that names a real post. Ids already
// linked or unknown are skipped. It returns the number of links created.
func (s *Service) LinkPosts(ctx context.Context, projectID uint, postIDs []uint) (int, error) {
	if projectID == 0 {
		return 0, validationf("project_id required")
	}
	var linked int
	err := s.transaction(ctx, "link posts", func(tx *gorm.DB) error {
		if err := requireProject(tx, projectID); err != nil {
			return err
		}
		var err error
		linked, err = linkPosts(tx, projectID, postIDs)
		return err
	})
	return linked, err
}

func ensureLink(tx *gorm.DB, projectID, postID uint) (uint, bool, error) {
	link, err := findLink(tx, projectID, postID)
	if err == nil {
		return link.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}
	if err := requireProject(tx, projectID); err != nil {
		return 0, false, err
	}
	if err := requirePost(tx, postID); err != nil {
		return 0, false, err
	}

	link = &model.ProjectPost{ProjectID: projectID, PostID: postID}
	created, err := insertIgnore(tx, link, "project_id", "post_id")
	if err != nil {
		return 0, false, err
	}
	if created {
		return link.ID, true, nil
	}
	// another writer got there between the lookup and the insert
	link, err = findLink(tx, projectID, postID)
	if err != nil {
		return 0, false, err
	}
	return link.ID, false, nil
}

func findLink(tx *gorm.DB, projectID, postID uint) (*model.ProjectPost, error) {
	var link model.ProjectPost
	err := tx.Where("project_id = ? AND post_id = ?", projectID, postID).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func linkPosts(tx *gorm.DB, projectID uint, postIDs []uint) (int, error) {
	postIDs = uniqueIDs(postIDs)
	if len(postIDs) == 0 {
		return 0, nil
	}
	var valid []uint
	if err := tx.Model(&model.Post{}).Where("id IN ?", postIDs).Order("id").Pluck("id", &valid).Error; err != nil {
		return 0, err
	}
	// one statement per link keeps RowsAffected exact on every dialect
	linked := 0
	for _, id := range valid {
		created, err := insertIgnore(tx, &model.ProjectPost{ProjectID: projectID, PostID: id}, "project_id", "post_id")
		if err != nil {
			return 0, err
		}
		if created {
			linked++
		}
	}
	return linked, nil
}
