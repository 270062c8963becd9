package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// FeedPageSize is the number of posts fetched per feed page.
const FeedPageSize = 5

// VideoPost is a short video shared by a user.
type VideoPost struct {
	BaseModel
	UserID      string `gorm:"size:36;index;not null" json:"-"`
	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Video       string `gorm:"size:255" json:"video"`
	Description string `gorm:"type:text" json:"description"`
	LikesCount  int    `gorm:"-" json:"likesCount"`
	Likes       []User `gorm:"many2many:video_post_likes;joinForeignKey:PostID;joinReferences:UserID" json:"likes"`
}

// VideoPostLike is the join row between a post and a user who liked it.
type VideoPostLike struct {
	PostID    string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}

// AfterFind derives LikesCount from the preloaded likes.
func (p *VideoPost) AfterFind(tx *gorm.DB) error {
	p.LikesCount = len(p.Likes)
	return nil
}

// AuthorID returns the id of the post's author, or "" when not loaded.
func (p VideoPost) AuthorID() string {
	if p.User == nil {
		return ""
	}
	return p.User.ID
}

// LikedBy reports whether userID is among the post's likes.
func (p VideoPost) LikedBy(userID string) bool {
	for _, u := range p.Likes {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// VideoFile stores the uploaded video bytes of a post.
type VideoFile struct {
	BaseModel
	PostID   string `gorm:"size:36;uniqueIndex;not null" json:"-"`
	FileName string `gorm:"not null" json:"fileName"`
	FileType string `gorm:"not null" json:"fileType"`
	FileData []byte `gorm:"not null" json:"-"`
}

// VideoComment is a comment on a post.
type VideoComment struct {
	BaseModel
	PostID string `gorm:"size:36;index;not null" json:"postId"`
	UserID string `gorm:"size:36;index;not null" json:"-"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text   string `gorm:"type:text;not null" json:"text"`
}

// AuthorID returns the id of the comment's author, or "" when not loaded.
func (c VideoComment) AuthorID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}

// Follow records that FollowerID follows FollowingID.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;size:36" json:"follower"`
	FollowingID string    `gorm:"primaryKey;size:36;index" json:"following"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is a user together with the ids of their followers and of the
// users they follow.
type Profile struct {
	User
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// FollowedBy reports whether userID follows the profile's owner.
func (p Profile) FollowedBy(userID string) bool {
	for _, id := range p.Followers {
		if id == userID {
			return true
		}
	}
	return false
}

// Review is a rating with a comment left by one user on a doctor's profile.
type Review struct {
	BaseModel
	UserID     string `gorm:"size:36;index;not null" json:"user"`
	ReviewerID string `gorm:"size:36;index;not null" json:"-"`
	Reviewer   *User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Rating     int    `gorm:"not null" json:"rating"`
	Comment    string `gorm:"type:text" json:"comment"`
}

// AuthorID returns the id of the review's author, or "" when not loaded.
func (r Review) AuthorID() string {
	if r.Reviewer == nil {
		return ""
	}
	return r.Reviewer.ID
}

// ReviewerName returns the reviewer's name, or "" when not loaded.
func (r Review) ReviewerName() string {
	if r.Reviewer == nil {
		return ""
	}
	return r.Reviewer.Name
}

// ValidReview reports whether rating is 1..5 and comment has text.
func ValidReview(rating int, comment string) bool {
	return rating >= 1 && rating <= 5 && strings.TrimSpace(comment) != ""
}
