package analysis

import (
	"github.com/waltherrera/Social-Media-Database/dao/model"
	"github.com/waltherrera/Social-Media-Database/util"
)

type ProjectView struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	ManagerFirstName *string `json:"manager_first_name,omitempty"`
	ManagerLastName  *string `json:"manager_last_name,omitempty"`
	Institute        string  `json:"institute"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
}

type ProjectSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostView is a post as every report prints it.
type PostView struct {
	ID          uint   `json:"id"`
	Content     string `json:"content"`
	PostTime    string `json:"post_time"`
	SocialMedia string `json:"social_media"`
	Username    string `json:"username"`
}

// ResultPost is a post with the values recorded for it in one project.
type ResultPost struct {
	PostView
	Results map[string]string `json:"results"`
}

// UserPost is a post in a user's timeline.
type UserPost struct {
	PostView
	Type           model.PostType `json:"type"`
	OriginalPostID *uint          `json:"original_post_id"`
}

// NewPostView expects p loaded with its User and SocialMedia.
func NewPostView(p *model.Post) PostView {
	return PostView{
		ID:          p.ID,
		Content:     p.Content,
		PostTime:    util.FormatDateTime(p.PostTime),
		SocialMedia: p.SocialMedia.Name,
		Username:    p.User.Username,
	}
}

func newProjectView(p *model.Project) *ProjectView {
	return &ProjectView{
		ID:               p.ID,
		Name:             p.Name,
		ManagerFirstName: p.ManagerFirstName,
		ManagerLastName:  p.ManagerLastName,
		Institute:        p.Institute.Name,
		StartDate:        p.StartDate.UTC().Format(util.DateLayout),
		EndDate:          p.EndDate.UTC().Format(util.DateLayout),
	}
}
