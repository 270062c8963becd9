package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/remotelist"
	"medconnect/internal/session"
)

// FeedAPI is the part of the API client used by the video feed.
type FeedAPI interface {
	VideoPosts(ctx context.Context, userID string, skip, limit int) ([]models.VideoPost, error)
	CreatePost(ctx context.Context, p apiclient.NewPost) (*models.VideoPost, error)
	UpdatePost(ctx context.Context, id, description string) (*models.VideoPost, error)
	DeletePost(ctx context.Context, id string) (string, error)
	LikePost(ctx context.Context, id string) (*apiclient.LikeResult, error)
	Comments(ctx context.Context, postID string) ([]models.VideoComment, error)
	AddComment(ctx context.Context, postID, text string) ([]models.VideoComment, error)
	DeleteComment(ctx context.Context, commentID string) (string, error)
}

func postKey(p models.VideoPost) string { return p.ID }

func postByID(id string) func(models.VideoPost) bool {
	return func(p models.VideoPost) bool { return p.ID == id }
}

// Feed is an infinitely scrolled list of video posts, five per page. With an
// author set it shows only that user's posts ("my videos").
type Feed struct {
	*remotelist.Pager[models.VideoPost]

	api      FeedAPI
	session  *session.Session
	notifier notify.Notifier

	mu       sync.Mutex
	comments map[string][]models.VideoComment
}

// NewFeed returns an empty feed of every post, or of authorID's posts when
// authorID is not empty.
func NewFeed(api FeedAPI, sess *session.Session, n notify.Notifier, authorID string) *Feed {
	fetch := func(ctx context.Context, skip, limit int) ([]models.VideoPost, error) {
		return api.VideoPosts(ctx, authorID, skip, limit)
	}
	return &Feed{
		Pager:    remotelist.NewPager[models.VideoPost](fetch, postKey, models.FeedPageSize),
		api:      api,
		session:  sess,
		notifier: n,
		comments: make(map[string][]models.VideoComment),
	}
}

// LoadMore fetches the next page. It returns remotelist.ErrBusy without a
// toast when a page is already loading.
func (v *Feed) LoadMore(ctx context.Context) (int, error) {
	added, err := v.Next(ctx)
	if err != nil && !errors.Is(err, remotelist.ErrBusy) {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching videos"))
	}
	return added, err
}

// Refresh drops every loaded post and fetches the first page again.
func (v *Feed) Refresh(ctx context.Context) error {
	v.Reset()
	v.mu.Lock()
	clear(v.comments)
	v.mu.Unlock()
	_, err := v.LoadMore(ctx)
	return err
}

// CanModify reports whether the signed-in user may edit or delete p.
func (v *Feed) CanModify(p models.VideoPost) bool {
	if v.session == nil {
		return false
	}
	return v.session.IsAdmin() || p.AuthorID() == v.session.UserID
}

// LikedByMe reports whether the signed-in user likes p.
func (v *Feed) LikedByMe(p models.VideoPost) bool {
	return v.session != nil && p.LikedBy(v.session.UserID)
}

// Publish uploads a new post. On success it is put first in the feed.
func (v *Feed) Publish(ctx context.Context, description, videoName string, video io.Reader) (*models.VideoPost, error) {
	if video == nil || videoName == "" {
		v.notifier.Error("Please select a video")
		return nil, fmt.Errorf("%w: no video", ErrInvalidForm)
	}
	post, err := v.api.CreatePost(ctx, apiclient.NewPost{
		Description: strings.TrimSpace(description),
		VideoName:   videoName,
		Video:       video,
	})
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error creating post"))
		return nil, err
	}
	v.Prepend(*post)
	v.notifier.Success("Post created successfully")
	return post, nil
}

func (v *Feed) modifiable(id string) (models.VideoPost, error) {
	p, ok := v.Find(postByID(id))
	if !ok {
		return p, ErrNotFound
	}
	if !v.CanModify(p) {
		return p, ErrUnavailable
	}
	return p, nil
}

// Edit changes the description of post id. On success the cached post takes
// the server's description.
func (v *Feed) Edit(ctx context.Context, id, description string) error {
	if _, err := v.modifiable(id); err != nil {
		return err
	}
	post, err := v.api.UpdatePost(ctx, id, strings.TrimSpace(description))
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error updating post"))
		return err
	}
	v.Update(postByID(id), func(p *models.VideoPost) { p.Description = post.Description })
	v.notifier.Success("Post updated successfully")
	return nil
}

// Delete removes post id. On success it leaves the feed with its comments.
func (v *Feed) Delete(ctx context.Context, id string) error {
	if _, err := v.modifiable(id); err != nil {
		return err
	}
	if _, err := v.api.DeletePost(ctx, id); err != nil {
		v.notifier.Error("Post Deletion Failed")
		return err
	}
	v.Remove(postByID(id))
	v.mu.Lock()
	delete(v.comments, id)
	v.mu.Unlock()
	v.notifier.Success("Post Deleted")
	return nil
}

// Like toggles the signed-in user's like on post id. On success the cached
// post carries the server's like count and likers; no toast is shown.
func (v *Feed) Like(ctx context.Context, id string) error {
	if _, ok := v.Find(postByID(id)); !ok {
		return ErrNotFound
	}
	res, err := v.api.LikePost(ctx, id)
	if err != nil {
		v.notifier.Error("Error liking post")
		return err
	}
	v.Update(postByID(id), func(p *models.VideoPost) {
		known := make(map[string]models.User, len(p.Likes))
		for _, u := range p.Likes {
			known[u.ID] = u
		}
		likes := make([]models.User, 0, len(res.LikedBy))
		for _, uid := range res.LikedBy {
			u, ok := known[uid]
			if !ok {
				u.ID = uid
			}
			likes = append(likes, u)
		}
		p.Likes = likes
		p.LikesCount = res.LikesCount
	})
	return nil
}

// Comments fetches and caches the comments of post id.
func (v *Feed) Comments(ctx context.Context, postID string) ([]models.VideoComment, error) {
	comments, err := v.api.Comments(ctx, postID)
	if err != nil {
		v.notifier.Error("Error fetching comments")
		return nil, err
	}
	v.setComments(postID, comments)
	return comments, nil
}

// CommentsOf returns the cached comments of post id.
func (v *Feed) CommentsOf(postID string) []models.VideoComment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.VideoComment(nil), v.comments[postID]...)
}

func (v *Feed) setComments(postID string, comments []models.VideoComment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.comments[postID] = comments
}

// AddComment comments on post id. Blank text is refused without a request.
// On success the cached comments are replaced by the server's list.
func (v *Feed) AddComment(ctx context.Context, postID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: empty comment", ErrInvalidForm)
	}
	comments, err := v.api.AddComment(ctx, postID, text)
	if err != nil {
		v.notifier.Error("Error adding comment")
		return err
	}
	v.setComments(postID, comments)
	return nil
}

// CanDeleteComment reports whether the signed-in user may delete c from the
// post it belongs to.
func (v *Feed) CanDeleteComment(c models.VideoComment) bool {
	if v.session == nil {
		return false
	}
	if v.session.IsAdmin() || c.AuthorID() == v.session.UserID {
		return true
	}
	p, ok := v.Find(postByID(c.PostID))
	return ok && p.AuthorID() == v.session.UserID
}

// DeleteComment removes comment commentID of post postID. On success it is
// dropped from the cached comments.
func (v *Feed) DeleteComment(ctx context.Context, postID, commentID string) error {
	var target *models.VideoComment
	for _, c := range v.CommentsOf(postID) {
		if c.ID == commentID {
			target = &c
			break
		}
	}
	if target == nil {
		return ErrNotFound
	}
	if !v.CanDeleteComment(*target) {
		return ErrUnavailable
	}

	if _, err := v.api.DeleteComment(ctx, commentID); err != nil {
		v.notifier.Error("Error deleting comment")
		return err
	}
	v.mu.Lock()
	kept := v.comments[postID][:0]
	for _, c := range v.comments[postID] {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	v.comments[postID] = kept
	v.mu.Unlock()
	v.notifier.Success("Comment deleted")
	return nil
}
