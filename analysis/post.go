package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/waltherrera/Social-Media-Database/dao/model"
	"github.com/waltherrera/Social-Media-Database/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostFilter selects posts for searches and the filtered report. Text
// filters match case-insensitively after trimming; empty ones are ignored.
// From and To are inclusive and take YYYY-MM-DD or YYYY-MM-DD HH:MM:SS; a
// date-only To covers that whole day.
type PostFilter struct {
	SocialMedia string
	Username    string
	FirstName   string
	LastName    string
	From        string
	To          string
}

type timeRange struct {
	from, to    time.Time
	hasFrom     bool
	hasTo       bool
	toExclusive bool
}

func parseTimeRange(from, to string) (timeRange, error) {
	var r timeRange
	if strings.TrimSpace(from) != "" {
		t, _, err := util.ParseTimeBound(from)
		if err != nil {
			return r, validationf("invalid datetime format: %v", err)
		}
		r.from, r.hasFrom = t, true
	}
	if strings.TrimSpace(to) != "" {
		t, dateOnly, err := util.ParseTimeBound(to)
		if err != nil {
			return r, validationf("invalid datetime format: %v", err)
		}
		r.to, r.hasTo = t, true
		if dateOnly {
			r.to, r.toExclusive = t.AddDate(0, 0, 1), true
		}
	}
	if r.hasFrom && r.hasTo && r.to.Before(r.from) {
		return r, validationf("time range ends before it starts")
	}
	return r, nil
}

func (r timeRange) apply(q *gorm.DB) *gorm.DB {
	if r.hasFrom {
		q = q.Where("posts.post_time >= ?", r.from)
	}
	if r.hasTo {
		if r.toExclusive {
			q = q.Where("posts.post_time < ?", r.to)
		} else {
			q = q.Where("posts.post_time <= ?", r.to)
		}
	}
	return q
}

// FindPost loads one post with its author and platform.
func (s *Service) FindPost(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := s.transaction(ctx, "find post", func(tx *gorm.DB) error {
		err := tx.Preload("User").Preload("SocialMedia").First(&post, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("post %d not found", id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPosts returns posts matching f, newest first.
func (s *Service) FindPosts(ctx context.Context, f PostFilter) ([]model.Post, error) {
	r, err := parseTimeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	var posts []model.Post
	err = s.transaction(ctx, "find posts", func(tx *gorm.DB) error {
		posts, err = findPosts(tx, f, r)
		return err
	})
	return posts, err
}

func findPosts(tx *gorm.DB, f PostFilter, r timeRange) ([]model.Post, error) {
	q := tx.Model(&model.Post{}).
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("JOIN social_media ON social_media.id = posts.social_media_id")
	for _, cond := range [...]struct{ column, value string }{
		{"social_media.name", f.SocialMedia},
		{"users.username", f.Username},
		{"users.first_name", f.FirstName},
		{"users.last_name", f.LastName},
	} {
		if v := strings.ToLower(strings.TrimSpace(cond.value)); v != "" {
			q = q.Where("LOWER(TRIM("+cond.column+")) = ?", v)
		}
	}
	q = r.apply(q)

	var posts []model.Post
	err := q.Preload("User").Preload("SocialMedia").
		Order("posts.post_time DESC").Order("posts.id DESC").
		Find(&posts).Error
	return posts, err
}

type NewPost struct {
	Username         string
	SocialMedia      string
	PostTime         string
	Content          string
	FirstName        *string
	LastName         *string
	BirthCountry     *string
	ResidenceCountry *string
	Age              *int
	Gender           *string
	Verified         bool
	Location         model.Location
	Likes            int
	Dislikes         int
	Multimedia       bool
	MediaURL         *string
}

// AddPost ingests a post, creating its platform and author on first sight.
// A post with the same author, platform and time is not stored twice;
// created is false and the stored post is returned.
func (s *Service) AddPost(ctx context.Context, in NewPost) (post *model.Post, created bool, err error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.SocialMedia) == "" ||
		strings.TrimSpace(in.PostTime) == "" || in.Content == "" {
		return nil, false, validationf("missing post fields")
	}
	postTime, _, err := util.ParseTimeBound(in.PostTime)
	if err != nil {
		return nil, false, validationf("post_time must be YYYY-MM-DD HH:MM:SS")
	}
	if in.Likes < 0 || in.Dislikes < 0 {
		return nil, false, validationf("likes and dislikes must not be negative")
	}

	err = s.transaction(ctx, "add post", func(tx *gorm.DB) error {
		sm, err := getOrCreateSocialMedia(tx, strings.TrimSpace(in.SocialMedia))
		if err != nil {
			return err
		}
		user, err := getOrCreateUser(tx, &model.User{
			Username:         strings.TrimSpace(in.Username),
			SocialMediaID:    sm.ID,
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			BirthCountry:     in.BirthCountry,
			ResidenceCountry: in.ResidenceCountry,
			Age:              in.Age,
			Gender:           in.Gender,
			Verified:         in.Verified,
		})
		if err != nil {
			return err
		}
		post = &model.Post{
			UserID:        user.ID,
			SocialMediaID: sm.ID,
			PostTime:      postTime,
			Content:       in.Content,
			Likes:         in.Likes,
			Dislikes:      in.Dislikes,
			Multimedia:    in.Multimedia,
			MediaURL:      in.MediaURL,
			Location:      datatypes.NewJSONType(in.Location),
		}
		created, err = insertIgnore(tx.Omit("User", "SocialMedia"), post, "user_id", "social_media_id", "post_time")
		if err != nil {
			return err
		}
		if !created {
			post = &model.Post{}
			if err := tx.Where("user_id = ? AND social_media_id = ? AND post_time = ?", user.ID, sm.ID, postTime).
				First(post).Error; err != nil {
				return err
			}
		}
		post.User, post.SocialMedia = *user, *sm
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return post, created, nil
}

type NewRepost struct {
	OriginalPostID   uint
	ReposterUsername string
	RepostTime       string
}

// Repost records a reposter sharing an existing post on the same platform.
// The repost is stored as a new post carrying the original content.
func (s *Service) Repost(ctx context.Context, in NewRepost) (*model.Post, error) {
	if in.OriginalPostID == 0 || strings.TrimSpace(in.ReposterUsername) == "" || strings.TrimSpace(in.RepostTime) == "" {
		return nil, validationf("missing required fields")
	}
	repostTime, err := util.ParseDateTime(in.RepostTime)
	if err != nil {
		return nil, validationf("invalid repost time format")
	}

	var repost *model.Post
	err = s.transaction(ctx, "repost", func(tx *gorm.DB) error {
		var original model.Post
		if err := tx.Preload("SocialMedia").First(&original, in.OriginalPostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("original post not found")
			}
			return err
		}
		if !repostTime.After(original.PostTime) {
			return validationf("repost time must be after original post time")
		}
		var reposter model.User
		if err := tx.Where("username = ? AND social_media_id = ?", strings.TrimSpace(in.ReposterUsername), original.SocialMediaID).
			First(&reposter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("reposter user not found")
			}
			return err
		}

		var taken int64
		if err := tx.Model(&model.Post{}).
			Where("user_id = ? AND social_media_id = ? AND post_time = ?", reposter.ID, original.SocialMediaID, repostTime).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return conflictf("duplicate repost not allowed")
		}

		repost = &model.Post{
			UserID:        reposter.ID,
			SocialMediaID: original.SocialMediaID,
			PostTime:      repostTime,
			Content:       original.Content,
		}
		if err := tx.Omit("User", "SocialMedia").Create(repost).Error; err != nil {
			if isDuplicateKey(err) {
				return conflictf("duplicate repost not allowed")
			}
			return err
		}
		if err := tx.Create(&model.Repost{
			OriginalPostID: original.ID,
			RepostPostID:   repost.ID,
			ReposterID:     reposter.ID,
			RepostTime:     repostTime,
		}).Error; err != nil {
			return err
		}
		repost.User, repost.SocialMedia = reposter, original.SocialMedia
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repost, nil
}

// PostsInRange lists posts whose calendar day falls between start and end
// inclusive, oldest first.
func (s *Service) PostsInRange(ctx context.Context, start, end string) ([]PostView, error) {
	from, _, err := util.ParseTimeBound(start)
	if err != nil {
		return nil, validationf("start: %v", err)
	}
	to, _, err := util.ParseTimeBound(end)
	if err != nil {
		return nil, validationf("end: %v", err)
	}
	from = truncateDay(from)
	to = truncateDay(to).AddDate(0, 0, 1)
	if !to.After(from) {
		return nil, validationf("end must not be before start")
	}

	views := []PostView{}
	err = s.transaction(ctx, "posts in range", func(tx *gorm.DB) error {
		var posts []model.Post
		if err := tx.Preload("User").Preload("SocialMedia").
			Where("post_time >= ? AND post_time < ?", from, to).
			Order("post_time").Order("id").
			Find(&posts).Error; err != nil {
			return err
		}
		for i := range posts {
			views = append(views, NewPostView(&posts[i]))
		}
		return nil
	})
	return views, err
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListUsernames returns every distinct username across platforms.
func (s *Service) ListUsernames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.transaction(ctx, "list usernames", func(tx *gorm.DB) error {
		return tx.Model(&model.User{}).Distinct("username").Order("username").Pluck("username", &names).Error
	})
	return names, err
}

// ListUserPlatforms returns the platforms a username has posted on.
func (s *Service) ListUserPlatforms(ctx context.Context, username string) ([]string, error) {
	if strings.TrimSpace(username) == "" {
		return nil, validationf("username required")
	}
	platforms := []string{}
	err := s.transaction(ctx, "list user platforms", func(tx *gorm.DB) error {
		return tx.Model(&model.Post{}).
			Joins("JOIN users ON users.id = posts.user_id").
			Joins("JOIN social_media ON social_media.id = posts.social_media_id").
			Where("users.username = ?", username).
			Distinct("social_media.name").
			Order("social_media.name").
			Pluck("social_media.name", &platforms).Error
	})
	return platforms, err
}

// ListUserPosts returns a user's posts on one platform, oldest first, each
// marked as original or repost.
func (s *Service) ListUserPosts(ctx context.Context, username, platform string) ([]UserPost, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(platform) == "" {
		return nil, validationf("username and platform required")
	}
	out := []UserPost{}
	err := s.transaction(ctx, "list user posts", func(tx *gorm.DB) error {
		var posts []model.Post
		if err := tx.Model(&model.Post{}).
			Joins("JOIN users ON users.id = posts.user_id").
			Joins("JOIN social_media ON social_media.id = posts.social_media_id").
			Where("users.username = ? AND social_media.name = ?", username, platform).
			Preload("User").Preload("SocialMedia").
			Order("posts.post_time").Order("posts.id").
			Find(&posts).Error; err != nil {
			return err
		}
		if len(posts) == 0 {
			return nil
		}
		ids := make([]uint, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}
		var reposts []model.Repost
		if err := tx.Where("repost_post_id IN ?", ids).Find(&reposts).Error; err != nil {
			return err
		}
		originOf := make(map[uint]uint, len(reposts))
		for _, r := range reposts {
			originOf[r.RepostPostID] = r.OriginalPostID
		}
		for i := range posts {
			up := UserPost{PostView: NewPostView(&posts[i]), Type: model.PostTypeOriginal}
			if orig, ok := originOf[posts[i].ID]; ok {
				up.Type, up.OriginalPostID = model.PostTypeRepost, &orig
			}
			out = append(out, up)
		}
		return nil
	})
	return out, err
}
