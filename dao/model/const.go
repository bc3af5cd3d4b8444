package model

// PostType tells an original post apart from a repost of another post.
type PostType string

const (
	PostTypeOriginal PostType = "original"
	PostTypeRepost   PostType = "repost"
)

// UnassignedBucket names the report bucket holding posts linked to no project.
// Projects may not take this name.
const UnassignedBucket = "Unassigned"
