package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/waltherrera/Social-Media-Database/dao/model"
	"github.com/waltherrera/Social-Media-Database/util"

	"gorm.io/gorm"
)

type NewProject struct {
	Name             string
	ManagerFirstName *string
	ManagerLastName  *string
	Institute        string
	StartDate        string
	EndDate          string
	// PostIDs are linked on creation. Ids that are not real posts are skipped.
	PostIDs []uint
}

// ProjectRef names a project by ID or by name. ID wins when both are set.
type ProjectRef struct {
	ID   uint
	Name string
}

type ProjectCreated struct {
	Project     *ProjectView `json:"project"`
	LinkedPosts int          `json:"linked_posts"`
}

// CreateProject validates and stores a new project, creating its institute on
// first use and linking any supplied posts in the same transaction.
func (s *Service) CreateProject(ctx context.Context, in NewProject) (*ProjectCreated, error) {
	name := strings.TrimSpace(in.Name)
	institute := strings.TrimSpace(in.Institute)
	if name == "" || institute == "" || in.StartDate == "" || in.EndDate == "" {
		return nil, validationf("missing project fields")
	}
	if name == model.UnassignedBucket {
		return nil, validationf("project name %q is reserved", name)
	}
	start, err := util.ParseDate(in.StartDate)
	if err != nil {
		return nil, validationf("dates must be YYYY-MM-DD")
	}
	end, err := util.ParseDate(in.EndDate)
	if err != nil {
		return nil, validationf("dates must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, validationf("end_date must be on or after start_date")
	}

	out := &ProjectCreated{}
	err = s.transaction(ctx, "create project", func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Project{}).Where("name = ?", name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return conflictf("project with name %q already exists", name)
		}
		inst, err := getOrCreateInstitute(tx, institute)
		if err != nil {
			return err
		}
		project := &model.Project{
			Name:             name,
			ManagerFirstName: in.ManagerFirstName,
			ManagerLastName:  in.ManagerLastName,
			InstituteID:      inst.ID,
			StartDate:        start,
			EndDate:          end,
		}
		if err := tx.Omit("Institute").Create(project).Error; err != nil {
			if isDuplicateKey(err) {
				return conflictf("project with name %q already exists", name)
			}
			return err
		}
		project.Institute = *inst
		out.Project = newProjectView(project)
		if len(in.PostIDs) > 0 {
			linked, err := linkPosts(tx, project.ID, in.PostIDs)
			if err != nil {
				return err
			}
			out.LinkedPosts = linked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject resolves a project reference.
func (s *Service) GetProject(ctx context.Context, ref ProjectRef) (*ProjectView, error) {
	if ref.ID == 0 && strings.TrimSpace(ref.Name) == "" {
		return nil, validationf("provide project_id or project_name")
	}
	var out *ProjectView
	err := s.transaction(ctx, "get project", func(tx *gorm.DB) error {
		project, err := findProject(tx, ref)
		if err != nil {
			return err
		}
		out = newProjectView(project)
		return nil
	})
	return out, err
}

// ListProjects returns every project ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	projects := []ProjectSummary{}
	err := s.transaction(ctx, "list projects", func(tx *gorm.DB) error {
		return tx.Model(&model.Project{}).Select("id", "name").Order("name").Scan(&projects).Error
	})
	return projects, err
}

func findProject(tx *gorm.DB, ref ProjectRef) (*model.Project, error) {
	var project model.Project
	q := tx.Preload("Institute")
	if ref.ID != 0 {
		q = q.Where("id = ?", ref.ID)
	} else {
		q = q.Where("name = ?", strings.TrimSpace(ref.Name))
	}
	if err := q.First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("project not found")
		}
		return nil, err
	}
	return &project, nil
}

func requireProject(tx *gorm.DB, projectID uint) error {
	return requireRow(tx, &model.Project{}, projectID, "project")
}

func requirePost(tx *gorm.DB, postID uint) error {
	return requireRow(tx, &model.Post{}, postID, "post")
}

func requireRow(tx *gorm.DB, m any, id uint, what string) error {
	var n int64
	if err := tx.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFoundf("%s %d not found", what, id)
	}
	return nil
}

func getOrCreateInstitute(tx *gorm.DB, name string) (*model.Institute, error) {
	inst := &model.Institute{Name: name}
	created, err := insertIgnore(tx, inst, "name")
	if err != nil || created {
		return inst, err
	}
	inst = &model.Institute{}
	return inst, tx.Where("name = ?", name).First(inst).Error
}

func getOrCreateSocialMedia(tx *gorm.DB, name string) (*model.SocialMedia, error) {
	sm := &model.SocialMedia{Name: name}
	created, err := insertIgnore(tx, sm, "name")
	if err != nil || created {
		return sm, err
	}
	sm = &model.SocialMedia{}
	return sm, tx.Where("name = ?", name).First(sm).Error
}

// getOrCreateUser looks the account up by (username, platform). Profile
// attributes on candidate are only used when the account is new.
func getOrCreateUser(tx *gorm.DB, candidate *model.User) (*model.User, error) {
	created, err := insertIgnore(tx.Omit("SocialMedia"), candidate, "username", "social_media_id")
	if err != nil || created {
		return candidate, err
	}
	stored := &model.User{}
	err = tx.Where("username = ? AND social_media_id = ?", candidate.Username, candidate.SocialMediaID).
		First(stored).Error
	return stored, err
}
