package service

import (
	"github.com/waltherrera/Social-Media-Database/analysis"
	"github.com/waltherrera/Social-Media-Database/dao/model"
	"github.com/waltherrera/Social-Media-Database/response"

	"github.com/gin-gonic/gin"
)

type AddPostReq struct {
	Username         string  `json:"username"`
	SocialMedia      string  `json:"social_media"`
	PostTime         string  `json:"post_time"`
	Content          string  `json:"content"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	BirthCountry     *string `json:"birth_country"`
	ResidenceCountry *string `json:"residence_country"`
	Age              *int    `json:"age"`
	Gender           *string `json:"gender"`
	Verified         bool    `json:"verified"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Country          string  `json:"country"`
	Likes            int     `json:"likes"`
	Dislikes         int     `json:"dislikes"`
	Multimedia       bool    `json:"multimedia"`
	MediaURL         *string `json:"media_url"`
}

type RepostReq struct {
	ReposterUsername string `json:"reposter_username"`
	RepostTime       string `json:"repost_time"`
}

type PostDetail struct {
	analysis.PostView
	Likes      int            `json:"likes"`
	Dislikes   int            `json:"dislikes"`
	Multimedia bool           `json:"multimedia"`
	MediaURL   *string        `json:"media_url,omitempty"`
	Location   model.Location `json:"location"`
}

func newPostDetail(p *model.Post) PostDetail {
	return PostDetail{
		PostView:   analysis.NewPostView(p),
		Likes:      p.Likes,
		Dislikes:   p.Dislikes,
		Multimedia: p.Multimedia,
		MediaURL:   p.MediaURL,
		Location:   p.Location.Data(),
	}
}

func (h *Handler) AddPost(c *gin.Context) {
	var req AddPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	post, created, err := h.svc.AddPost(c.Request.Context(), analysis.NewPost{
		Username:         req.Username,
		SocialMedia:      req.SocialMedia,
		PostTime:         req.PostTime,
		Content:          req.Content,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		BirthCountry:     req.BirthCountry,
		ResidenceCountry: req.ResidenceCountry,
		Age:              req.Age,
		Gender:           req.Gender,
		Verified:         req.Verified,
		Location:         model.Location{City: req.City, State: req.State, Country: req.Country},
		Likes:            req.Likes,
		Dislikes:         req.Dislikes,
		Multimedia:       req.Multimedia,
		MediaURL:         req.MediaURL,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	msg := "Post added"
	if !created {
		msg = "Post already exists"
	}
	response.Accepted(c, created, msg, newPostDetail(post))
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := h.svc.FindPost(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, newPostDetail(post))
}

func (h *Handler) Repost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req RepostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	post, err := h.svc.Repost(c.Request.Context(), analysis.NewRepost{
		OriginalPostID:   id,
		ReposterUsername: req.ReposterUsername,
		RepostTime:       req.RepostTime,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Repost recorded", newPostDetail(post))
}

func (h *Handler) PostsInRange(c *gin.Context) {
	posts, err := h.svc.PostsInRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}

func (h *Handler) ListUsernames(c *gin.Context) {
	names, err := h.svc.ListUsernames(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"usernames": names})
}

func (h *Handler) ListUserPlatforms(c *gin.Context) {
	platforms, err := h.svc.ListUserPlatforms(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"platforms": platforms})
}

func (h *Handler) ListUserPosts(c *gin.Context) {
	posts, err := h.svc.ListUserPosts(c.Request.Context(), c.Param("username"), c.Query("platform"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}

func (h *Handler) RegisterPost(api *gin.RouterGroup) {
	api.POST("/posts", h.AddPost)
	api.GET("/posts", h.PostsInRange)
	api.GET("/posts/:id", h.GetPost)
	api.POST("/posts/:id/reposts", h.Repost)
	api.GET("/users", h.ListUsernames)
	api.GET("/users/:username/platforms", h.ListUserPlatforms)
	api.GET("/users/:username/posts", h.ListUserPosts)
}
