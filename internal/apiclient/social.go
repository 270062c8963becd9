package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"medconnect/internal/models"
)

// NewPost is a video upload with its description.
type NewPost struct {
	Description string
	VideoName   string
	Video       io.Reader
}

// CreatePost uploads a video post.
func (c *Client) CreatePost(ctx context.Context, p NewPost) (*models.VideoPost, error) {
	form := upload{
		fields:    []formField{{"description", p.Description}},
		fileField: "video",
		fileName:  p.VideoName,
		file:      p.Video,
	}
	var out struct {
		Post *models.VideoPost `json:"post"`
	}
	if err := c.postMultipart(ctx, "videoposts", form, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

// VideoPosts fetches one feed page, newest first. A non-empty userID limits
// the feed to that author.
func (c *Client) VideoPosts(ctx context.Context, userID string, skip, limit int) ([]models.VideoPost, error) {
	query := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
	if userID != "" {
		query.Set("userId", userID)
	}
	var out []models.VideoPost
	if err := c.do(ctx, http.MethodGet, "videoposts", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VideoPost fetches one post.
func (c *Client) VideoPost(ctx context.Context, id string) (*models.VideoPost, error) {
	var out models.VideoPost
	if err := c.do(ctx, http.MethodGet, "videoposts/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost changes a post's description.
func (c *Client) UpdatePost(ctx context.Context, id, description string) (*models.VideoPost, error) {
	in := struct {
		Description string `json:"description"`
	}{description}
	var out struct {
		Post *models.VideoPost `json:"post"`
	}
	if err := c.do(ctx, http.MethodPut, "videoposts/"+id, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodDelete, "videoposts/"+id, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// LikeResult is the state of a post's likes after a toggle.
type LikeResult struct {
	Message    string   `json:"message"`
	LikesCount int      `json:"likesCount"`
	LikedBy    []string `json:"likedBy"`
}

// LikePost toggles the caller's like on a post.
func (c *Client) LikePost(ctx context.Context, id string) (*LikeResult, error) {
	var out LikeResult
	if err := c.do(ctx, http.MethodPut, "videoposts/like/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Comments lists a post's comments, oldest first.
func (c *Client) Comments(ctx context.Context, postID string) ([]models.VideoComment, error) {
	var out []models.VideoComment
	if err := c.do(ctx, http.MethodGet, "videoposts/comments/"+postID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddComment comments on a post and returns the post's updated comments.
func (c *Client) AddComment(ctx context.Context, postID, text string) ([]models.VideoComment, error) {
	in := struct {
		Text string `json:"text"`
	}{text}
	var out []models.VideoComment
	if err := c.do(ctx, http.MethodPost, "videoposts/comment/"+postID, nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodDelete, "videoposts/comment/"+commentID, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Profile fetches a user with their follower and following ids.
func (c *Client) Profile(ctx context.Context, id string) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "admin/profile/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Follow makes the caller follow user id.
func (c *Client) Follow(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodPost, "users/follow/"+id, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Unfollow stops the caller following user id.
func (c *Client) Unfollow(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodPost, "users/unfollow/"+id, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Reviews lists the reviews on a user's profile, newest first.
func (c *Client) Reviews(ctx context.Context, userID string) ([]models.Review, error) {
	var out struct {
		Reviews []models.Review `json:"reviews"`
	}
	if err := c.do(ctx, http.MethodGet, "review/"+userID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

// ReviewRequest is the body of a new review.
type ReviewRequest struct {
	User    string `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview reviews a doctor and returns the stored review.
func (c *Client) AddReview(ctx context.Context, req ReviewRequest) (*models.Review, error) {
	var out struct {
		Review *models.Review `json:"review"`
	}
	if err := c.do(ctx, http.MethodPost, "review", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Review, nil
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodDelete, "review/"+id, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
