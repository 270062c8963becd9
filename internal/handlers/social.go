package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/middleware"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

// SocialHandler handles profiles, follows and doctor reviews.
type SocialHandler struct {
	users *UserHandler
}

// NewSocialHandler creates a new SocialHandler sharing the user lookups.
func NewSocialHandler(users *UserHandler) *SocialHandler {
	return &SocialHandler{users: users}
}

func (h *SocialHandler) db() *gorm.DB { return h.users.DB }

// GetProfile returns a user with the ids of their followers and followees.
func (h *SocialHandler) GetProfile(c *gin.Context) {
	user, ok := h.users.loadUser(c, c.Param("id"))
	if !ok {
		return
	}

	profile := models.Profile{User: *user, Followers: []string{}, Following: []string{}}
	err := h.db().Model(&models.Follow{}).Where("following_id = ?", user.ID).Order("created_at asc").Pluck("follower_id", &profile.Followers).Error
	if err == nil {
		err = h.db().Model(&models.Follow{}).Where("follower_id = ?", user.ID).Order("created_at asc").Pluck("following_id", &profile.Following).Error
	}
	if err != nil {
		log.Errorf("load follows of %s: %v", user.ID, err)
		utils.DatabaseError(c, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Follow makes the caller follow the user in the path.
func (h *SocialHandler) Follow(c *gin.Context) {
	callerID, _ := middleware.GetUserIDFromContext(c)
	target, ok := h.users.loadUser(c, c.Param("id"))
	if !ok {
		return
	}
	if target.ID == callerID {
		utils.BadRequest(c, "You cannot follow yourself")
		return
	}

	var count int64
	if err := h.db().Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", callerID, target.ID).Count(&count).Error; err != nil {
		log.Errorf("check follow %s->%s: %v", callerID, target.ID, err)
		utils.DatabaseError(c, "Failed to follow user")
		return
	}
	if count > 0 {
		utils.Conflict(c, utils.CodeAlreadyExists, "You already follow this user")
		return
	}
	if err := h.db().Create(&models.Follow{FollowerID: callerID, FollowingID: target.ID}).Error; err != nil {
		log.Errorf("follow %s->%s: %v", callerID, target.ID, err)
		utils.DatabaseError(c, "Failed to follow user")
		return
	}
	utils.Success(c, "followed successfully", nil)
}

// Unfollow removes the caller's follow of the user in the path.
func (h *SocialHandler) Unfollow(c *gin.Context) {
	callerID, _ := middleware.GetUserIDFromContext(c)
	targetID := c.Param("id")

	result := h.db().Where("follower_id = ? AND following_id = ?", callerID, targetID).Delete(&models.Follow{})
	if result.Error != nil {
		log.Errorf("unfollow %s->%s: %v", callerID, targetID, result.Error)
		utils.DatabaseError(c, "Failed to unfollow user")
		return
	}
	if result.RowsAffected == 0 {
		utils.BadRequest(c, "You are not following this user")
		return
	}
	utils.Success(c, "Unfollowed", nil)
}

// ListReviews returns the reviews left on a user's profile, newest first.
func (h *SocialHandler) ListReviews(c *gin.Context) {
	reviews := []models.Review{}
	err := h.db().Preload("Reviewer").Where("user_id = ?", c.Param("userId")).
		Order("created_at desc").Find(&reviews).Error
	if err != nil {
		log.Errorf("list reviews of %s: %v", c.Param("userId"), err)
		utils.DatabaseError(c, "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// AddReviewRequest represents the request body for reviewing a doctor.
type AddReviewRequest struct {
	User    string `json:"user" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,max=2000"`
}

// AddReview records the caller's review of a doctor. Each reviewer may review
// a doctor once.
func (h *SocialHandler) AddReview(c *gin.Context) {
	var req AddReviewRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !models.ValidReview(req.Rating, req.Comment) {
		utils.BadRequest(c, "Please provide a rating and review text")
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	if req.User == callerID {
		utils.BadRequest(c, "You cannot review yourself")
		return
	}
	var doctor models.User
	if err := h.db().Where("id = ? AND role = ?", req.User, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			log.Errorf("load doctor %s: %v", req.User, err)
			utils.DatabaseError(c, "Failed to load doctor")
		}
		return
	}

	review := models.Review{
		UserID:     doctor.ID,
		ReviewerID: callerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	err := h.db().Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Review{}).Where("user_id = ? AND reviewer_id = ?", doctor.ID, callerID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errAlreadyReviewed
		}
		return tx.Create(&review).Error
	})
	if errors.Is(err, errAlreadyReviewed) {
		utils.Conflict(c, utils.CodeAlreadyExists, "You have already reviewed this doctor")
		return
	}
	if err != nil {
		log.Errorf("review %s by %s: %v", doctor.ID, callerID, err)
		utils.DatabaseError(c, "Failed to submit review")
		return
	}

	if err := h.db().Preload("Reviewer").First(&review, "id = ?", review.ID).Error; err != nil {
		log.Errorf("reload review %s: %v", review.ID, err)
	}
	utils.Created(c, "Review submitted successfully", gin.H{"review": review})
}

var errAlreadyReviewed = errors.New("already reviewed")

// DeleteReview removes a review. Only its author or an admin may do so.
func (h *SocialHandler) DeleteReview(c *gin.Context) {
	var review models.Review
	if err := h.db().First(&review, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Review not found")
		} else {
			log.Errorf("load review %s: %v", c.Param("id"), err)
			utils.DatabaseError(c, "Failed to load review")
		}
		return
	}
	if !canModerate(c, review.ReviewerID) {
		utils.Forbidden(c, "You can only delete your own reviews")
		return
	}
	if err := h.db().Delete(&review).Error; err != nil {
		log.Errorf("delete review %s: %v", review.ID, err)
		utils.DatabaseError(c, "Failed to delete review")
		return
	}
	utils.Success(c, "Review deleted successfully", nil)
}
