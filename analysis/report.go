package analysis

import (
	"context"
	"strings"

	"github.com/waltherrera/Social-Media-Database/dao/model"

	"gorm.io/gorm"
)

type ProjectReport struct {
	Project         *ProjectView      `json:"project"`
	Posts           []ResultPost      `json:"posts"`
	FieldCompletion map[string]string `json:"field_completion"`
}

// Bucket groups the posts of a filtered report under one project.
// The unassigned bucket has no ProjectID and no completion.
type Bucket struct {
	ProjectID       uint              `json:"project_id,omitempty"`
	Posts           []ResultPost      `json:"posts"`
	FieldCompletion map[string]string `json:"field_completion,omitempty"`

	members map[uint]struct{}
}

func newBucket(projectID uint) *Bucket {
	return &Bucket{ProjectID: projectID, Posts: []ResultPost{}, members: map[uint]struct{}{}}
}

// add appends the post unless the bucket already holds it.
func (b *Bucket) add(p ResultPost) {
	if _, ok := b.members[p.ID]; ok {
		return
	}
	b.members[p.ID] = struct{}{}
	b.Posts = append(b.Posts, p)
}

func (b *Bucket) postIDs() []uint {
	ids := make([]uint, len(b.Posts))
	for i, p := range b.Posts {
		ids[i] = p.ID
	}
	return ids
}

type linkKey struct {
	projectID, postID uint
}

type resultRow struct {
	ProjectID uint
	PostID    uint
	Name      string
	Value     string
}

// loadResults collects recorded values keyed by (project, post); scope
// narrows the project_posts rows considered.
func loadResults(tx *gorm.DB, scope func(*gorm.DB) *gorm.DB) (map[linkKey]map[string]string, error) {
	var rows []resultRow
	q := tx.Model(&model.AnalysisResult{}).
		Select("project_posts.project_id, project_posts.post_id, project_fields.name, analysis_results.value").
		Joins("JOIN project_posts ON project_posts.id = analysis_results.project_post_id").
		Joins("JOIN project_fields ON project_fields.id = analysis_results.field_id")
	if err := scope(q).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[linkKey]map[string]string)
	for _, r := range rows {
		k := linkKey{r.ProjectID, r.PostID}
		if out[k] == nil {
			out[k] = map[string]string{}
		}
		out[k][r.Name] = r.Value
	}
	return out, nil
}

func resultsFor(all map[linkKey]map[string]string, k linkKey) map[string]string {
	if r, ok := all[k]; ok {
		return r
	}
	return map[string]string{}
}

// ProjectReport lists every post linked to the project with its recorded
// values and the field completion across all of them.
func (s *Service) ProjectReport(ctx context.Context, ref ProjectRef) (*ProjectReport, error) {
	if ref.ID == 0 && strings.TrimSpace(ref.Name) == "" {
		return nil, validationf("provide project_id or project_name")
	}
	report := &ProjectReport{Posts: []ResultPost{}}
	err := s.transaction(ctx, "project report", func(tx *gorm.DB) error {
		project, err := findProject(tx, ref)
		if err != nil {
			return err
		}
		report.Project = newProjectView(project)

		var posts []model.Post
		if err := tx.Joins("JOIN project_posts ON project_posts.post_id = posts.id").
			Where("project_posts.project_id = ?", project.ID).
			Preload("User").Preload("SocialMedia").
			Order("posts.post_time").Order("posts.id").
			Find(&posts).Error; err != nil {
			return err
		}
		results, err := loadResults(tx, func(q *gorm.DB) *gorm.DB {
			return q.Where("project_posts.project_id = ?", project.ID)
		})
		if err != nil {
			return err
		}
		for i := range posts {
			report.Posts = append(report.Posts, ResultPost{
				PostView: NewPostView(&posts[i]),
				Results:  resultsFor(results, linkKey{project.ID, posts[i].ID}),
			})
		}

		report.FieldCompletion, err = fieldCompletion(tx, project.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type postLink struct {
	ProjectID   uint
	PostID      uint
	ProjectName string
}

// FilteredReport finds the posts matching f and groups them by the project
// each is linked to. A post linked to several projects appears in each of
// their buckets; posts linked to none land in the "Unassigned" bucket.
// Completion in a project bucket is measured over that bucket's posts only.
func (s *Service) FilteredReport(ctx context.Context, f PostFilter) (map[string]*Bucket, error) {
	r, err := parseTimeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	buckets := map[string]*Bucket{}
	err = s.transaction(ctx, "filtered report", func(tx *gorm.DB) error {
		posts, err := findPosts(tx, f, r)
		if err != nil || len(posts) == 0 {
			return err
		}
		ids := make([]uint, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}

		var links []postLink
		if err := tx.Model(&model.ProjectPost{}).
			Select("project_posts.project_id, project_posts.post_id, projects.name AS project_name").
			Joins("JOIN projects ON projects.id = project_posts.project_id").
			Where("project_posts.post_id IN ?", ids).
			Order("project_posts.id").
			Scan(&links).Error; err != nil {
			return err
		}
		linksOf := make(map[uint][]postLink, len(links))
		for _, l := range links {
			linksOf[l.PostID] = append(linksOf[l.PostID], l)
		}
		results, err := loadResults(tx, func(q *gorm.DB) *gorm.DB {
			return q.Where("project_posts.post_id IN ?", ids)
		})
		if err != nil {
			return err
		}

		for i := range posts {
			view := NewPostView(&posts[i])
			if len(linksOf[view.ID]) == 0 {
				bucketFor(buckets, model.UnassignedBucket, 0).add(ResultPost{PostView: view, Results: map[string]string{}})
				continue
			}
			for _, l := range linksOf[view.ID] {
				bucketFor(buckets, l.ProjectName, l.ProjectID).add(ResultPost{
					PostView: view,
					Results:  resultsFor(results, linkKey{l.ProjectID, view.ID}),
				})
			}
		}

		for _, b := range buckets {
			if b.ProjectID == 0 {
				continue
			}
			if b.FieldCompletion, err = fieldCompletion(tx, b.ProjectID, b.postIDs()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

func bucketFor(buckets map[string]*Bucket, name string, projectID uint) *Bucket {
	b, ok := buckets[name]
	if !ok {
		b = newBucket(projectID)
		buckets[name] = b
	}
	return b
}
