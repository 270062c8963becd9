package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/session"
)

// ProfileAPI is the part of the API client used by the profile screen.
type ProfileAPI interface {
	Profile(ctx context.Context, id string) (*models.Profile, error)
	Follow(ctx context.Context, id string) (string, error)
	Unfollow(ctx context.Context, id string) (string, error)
	Reviews(ctx context.Context, userID string) ([]models.Review, error)
	AddReview(ctx context.Context, req apiclient.ReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, id string) (string, error)
}

// ProfileView shows another user's profile with follow controls and, for
// doctors, their reviews.
type ProfileView struct {
	UserID string

	api      ProfileAPI
	session  *session.Session
	notifier notify.Notifier

	mu        sync.Mutex
	profile   *models.Profile
	following bool
	followers int
	followees int
	reviews   []models.Review
}

// NewProfileView returns an unloaded view of userID's profile.
func NewProfileView(api ProfileAPI, sess *session.Session, n notify.Notifier, userID string) *ProfileView {
	return &ProfileView{UserID: userID, api: api, session: sess, notifier: n}
}

func (v *ProfileView) me() string {
	if v.session == nil {
		return ""
	}
	return v.session.UserID
}

// Load fetches the profile and its reviews.
func (v *ProfileView) Load(ctx context.Context) error {
	p, err := v.api.Profile(ctx, v.UserID)
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching user profile"))
		return err
	}
	v.mu.Lock()
	v.profile = p
	v.following = p.FollowedBy(v.me())
	v.followers = len(p.Followers)
	v.followees = len(p.Following)
	v.mu.Unlock()
	return v.LoadReviews(ctx)
}

// Profile returns the loaded profile, or nil before Load.
func (v *ProfileView) Profile() *models.Profile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.profile
}

// IsFollowing reports whether the signed-in user follows this profile.
func (v *ProfileView) IsFollowing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.following
}

// FollowersCount returns the number of followers shown.
func (v *ProfileView) FollowersCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.followers
}

// FollowingCount returns the number of users this profile follows.
func (v *ProfileView) FollowingCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.followees
}

// CanFollow reports whether follow controls are shown: never on one's own
// profile or before Load.
func (v *ProfileView) CanFollow() bool {
	return v.Profile() != nil && v.me() != "" && v.me() != v.UserID
}

// Follow follows the profile. On success IsFollowing becomes true and the
// follower count goes up by one; nothing is refetched.
func (v *ProfileView) Follow(ctx context.Context) error {
	if !v.CanFollow() || v.IsFollowing() {
		return ErrUnavailable
	}
	msg, err := v.api.Follow(ctx, v.UserID)
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error following user"))
		return err
	}
	v.mu.Lock()
	v.following = true
	v.followers++
	v.mu.Unlock()
	if msg == "" {
		msg = "followed successfully"
	}
	v.notifier.Success(msg)
	return nil
}

// Unfollow stops following the profile. On success IsFollowing becomes false
// and the follower count goes down by one.
func (v *ProfileView) Unfollow(ctx context.Context) error {
	if !v.CanFollow() || !v.IsFollowing() {
		return ErrUnavailable
	}
	if _, err := v.api.Unfollow(ctx, v.UserID); err != nil {
		v.notifier.Error("Error Unfollowing")
		return err
	}
	v.mu.Lock()
	v.following = false
	if v.followers > 0 {
		v.followers--
	}
	v.mu.Unlock()
	v.notifier.Success("Unfollowed")
	return nil
}

// LoadReviews fetches the reviews on the profile.
func (v *ProfileView) LoadReviews(ctx context.Context) error {
	reviews, err := v.api.Reviews(ctx, v.UserID)
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching reviews"))
		return err
	}
	v.mu.Lock()
	v.reviews = reviews
	v.mu.Unlock()
	return nil
}

// Reviews returns the cached reviews, newest first.
func (v *ProfileView) Reviews() []models.Review {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Review(nil), v.reviews...)
}

// AverageRating returns the mean rating of the cached reviews, 0 if none.
func (v *ProfileView) AverageRating() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range v.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(v.reviews))
}

// CanReview reports whether the signed-in user may review this profile:
// only doctors are reviewed, and never by themselves.
func (v *ProfileView) CanReview() bool {
	p := v.Profile()
	return p != nil && p.Role == models.RoleDoctor && v.me() != "" && v.me() != v.UserID
}

// SubmitReview posts a rating (1 to 5) with a comment. On success the
// server's review is put first in the cached reviews.
func (v *ProfileView) SubmitReview(ctx context.Context, rating int, comment string) error {
	if !v.CanReview() {
		return ErrUnavailable
	}
	comment = strings.TrimSpace(comment)
	if !models.ValidReview(rating, comment) {
		v.notifier.Error("Please provide a rating and review text")
		return fmt.Errorf("%w: rating %d", ErrInvalidForm, rating)
	}
	review, err := v.api.AddReview(ctx, apiclient.ReviewRequest{User: v.UserID, Rating: rating, Comment: comment})
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error submitting review"))
		return err
	}
	v.mu.Lock()
	v.reviews = append([]models.Review{*review}, v.reviews...)
	v.mu.Unlock()
	v.notifier.Success("Review submitted successfully")
	return nil
}

// CanDeleteReview reports whether the signed-in user wrote r.
func (v *ProfileView) CanDeleteReview(r models.Review) bool {
	return v.me() != "" && r.AuthorID() == v.me()
}

// DeleteReview removes review id. On success it leaves the cached reviews.
func (v *ProfileView) DeleteReview(ctx context.Context, id string) error {
	var target *models.Review
	for _, r := range v.Reviews() {
		if r.ID == id {
			target = &r
			break
		}
	}
	if target == nil {
		return ErrNotFound
	}
	if !v.CanDeleteReview(*target) {
		return ErrUnavailable
	}
	if _, err := v.api.DeleteReview(ctx, id); err != nil {
		v.notifier.Error("Error deleting review")
		return err
	}
	v.mu.Lock()
	kept := make([]models.Review, 0, len(v.reviews))
	for _, r := range v.reviews {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	v.reviews = kept
	v.mu.Unlock()
	v.notifier.Success("Review deleted successfully")
	return nil
}
