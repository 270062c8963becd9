package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/middleware"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

const (
	maxVideoSize = 50 << 20
	maxFeedLimit = 50
)

// PostHandler handles video posts, their likes and their comments.
type PostHandler struct {
	DB *gorm.DB
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{DB: db}
}

func (h *PostHandler) withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Likes")
}

func (h *PostHandler) loadPost(c *gin.Context, id string) (*models.VideoPost, bool) {
	var post models.VideoPost
	if err := h.withAuthor(h.DB).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Post not found")
		} else {
			log.Errorf("load post %s: %v", id, err)
			utils.DatabaseError(c, "Failed to load post")
		}
		return nil, false
	}
	return &post, true
}

// canModerate reports whether the caller owns ownerID's content or is an admin.
func canModerate(c *gin.Context, ownerID string) bool {
	callerID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	return callerID == ownerID || role == models.RoleAdmin
}

// CreatePost stores an uploaded video with its description.
func (h *PostHandler) CreatePost(c *gin.Context) {
	header, err := c.FormFile("video")
	if err != nil {
		utils.BadRequest(c, "Video file is required")
		return
	}
	if header.Size > maxVideoSize {
		utils.BadRequest(c, "Video file is too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.BadRequest(c, "Error reading video: "+err.Error())
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading video content")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	post := models.VideoPost{
		UserID:      userID,
		Description: strings.TrimSpace(c.PostForm("description")),
	}
	post.ID = uuid.New().String()
	post.Video = "videoposts/video/" + post.ID

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Likes").Create(&post).Error; err != nil {
			return err
		}
		return tx.Create(&models.VideoFile{
			PostID:   post.ID,
			FileName: header.Filename,
			FileType: header.Header.Get("Content-Type"),
			FileData: data,
		}).Error
	})
	if err != nil {
		log.Errorf("create post for %s: %v", userID, err)
		utils.DatabaseError(c, "Failed to create post")
		return
	}

	created, ok := h.loadPost(c, post.ID)
	if !ok {
		return
	}
	utils.Created(c, "Post created successfully", gin.H{"post": created})
}

// intQuery parses a non-negative integer query parameter.
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		utils.BadRequest(c, key+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// ListPosts returns one page of posts, newest first. userId narrows the feed
// to one author; limit and skip select the page.
func (h *PostHandler) ListPosts(c *gin.Context) {
	limit, ok := intQuery(c, "limit", models.FeedPageSize)
	if !ok {
		return
	}
	skip, ok := intQuery(c, "skip", 0)
	if !ok {
		return
	}
	if limit == 0 || limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	query := h.withAuthor(h.DB).Order("created_at desc").Order("id asc").Limit(limit).Offset(skip)
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	posts := []models.VideoPost{}
	if err := query.Find(&posts).Error; err != nil {
		log.Errorf("list posts: %v", err)
		utils.DatabaseError(c, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns one post.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, ok := h.loadPost(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetVideo streams the stored video of a post.
func (h *PostHandler) GetVideo(c *gin.Context) {
	var file models.VideoFile
	if err := h.DB.First(&file, "post_id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Video not found")
		} else {
			log.Errorf("load video %s: %v", c.Param("id"), err)
			utils.DatabaseError(c, "Failed to load video")
		}
		return
	}
	contentType := file.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, file.FileData)
}

// UpdatePostRequest represents the request body for editing a post.
type UpdatePostRequest struct {
	Description string `json:"description" binding:"max=2000"`
}

// UpdatePost edits the description of the caller's post.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	post, ok := h.loadPost(c, c.Param("id"))
	if !ok {
		return
	}
	if !canModerate(c, post.UserID) {
		utils.Forbidden(c, "You can only edit your own posts")
		return
	}

	post.Description = strings.TrimSpace(req.Description)
	if err := h.DB.Model(post).Update("description", post.Description).Error; err != nil {
		log.Errorf("update post %s: %v", post.ID, err)
		utils.DatabaseError(c, "Failed to update post")
		return
	}
	utils.Success(c, "Post updated successfully", gin.H{"post": post})
}

// deletePosts removes the posts selected by scope with their files, likes and
// comments.
func deletePosts(tx *gorm.DB, scope func(*gorm.DB) *gorm.DB) error {
	var ids []string
	if err := scope(tx.Model(&models.VideoPost{})).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	for _, model := range []any{&models.VideoPostLike{}, &models.VideoComment{}, &models.VideoFile{}} {
		if err := tx.Where("post_id IN ?", ids).Delete(model).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&models.VideoPost{}).Error
}

// DeletePost removes a post. Only its author or an admin may do so.
func (h *PostHandler) DeletePost(c *gin.Context) {
	post, ok := h.loadPost(c, c.Param("id"))
	if !ok {
		return
	}
	if !canModerate(c, post.UserID) {
		utils.Forbidden(c, "You can only delete your own posts")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		return deletePosts(tx, func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", post.ID) })
	})
	if err != nil {
		log.Errorf("delete post %s: %v", post.ID, err)
		utils.DatabaseError(c, "Failed to delete post")
		return
	}
	utils.Success(c, "Post deleted successfully", nil)
}

// LikePost toggles the caller's like on a post.
func (h *PostHandler) LikePost(c *gin.Context) {
	post, ok := h.loadPost(c, c.Param("postId"))
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)
	like := models.VideoPostLike{PostID: post.ID, UserID: userID}

	message := "Post liked"
	var err error
	if post.LikedBy(userID) {
		message = "Post unliked"
		err = h.DB.Delete(&like).Error
	} else {
		err = h.DB.Create(&like).Error
	}
	if err != nil {
		log.Errorf("like post %s by %s: %v", post.ID, userID, err)
		utils.DatabaseError(c, "Failed to update like")
		return
	}

	likedBy := []string{}
	if err := h.DB.Model(&models.VideoPostLike{}).Where("post_id = ?", post.ID).Order("created_at asc").Pluck("user_id", &likedBy).Error; err != nil {
		log.Errorf("count likes %s: %v", post.ID, err)
		utils.DatabaseError(c, "Failed to count likes")
		return
	}
	utils.Success(c, message, gin.H{"likesCount": len(likedBy), "likedBy": likedBy})
}

func (h *PostHandler) comments(c *gin.Context, postID string) ([]models.VideoComment, bool) {
	comments := []models.VideoComment{}
	if err := h.DB.Preload("User").Where("post_id = ?", postID).Order("created_at asc").Find(&comments).Error; err != nil {
		log.Errorf("list comments %s: %v", postID, err)
		utils.DatabaseError(c, "Failed to fetch comments")
		return nil, false
	}
	return comments, true
}

// GetComments lists the comments of a post, oldest first.
func (h *PostHandler) GetComments(c *gin.Context) {
	post, ok := h.loadPost(c, c.Param("postId"))
	if !ok {
		return
	}
	comments, ok := h.comments(c, post.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddCommentRequest represents the request body for commenting on a post.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// AddComment adds the caller's comment and returns the post's comments.
func (h *PostHandler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		utils.BadRequest(c, "Comment text is required")
		return
	}
	post, ok := h.loadPost(c, c.Param("postId"))
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	comment := models.VideoComment{PostID: post.ID, UserID: userID, Text: text}
	if err := h.DB.Create(&comment).Error; err != nil {
		log.Errorf("comment on %s: %v", post.ID, err)
		utils.DatabaseError(c, "Failed to add comment")
		return
	}

	comments, ok := h.comments(c, post.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, comments)
}

// DeleteComment removes a comment. Its author, the post's author and admins
// may do so.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	var comment models.VideoComment
	if err := h.DB.First(&comment, "id = ?", c.Param("commentId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Comment not found")
		} else {
			log.Errorf("load comment %s: %v", c.Param("commentId"), err)
			utils.DatabaseError(c, "Failed to load comment")
		}
		return
	}

	var post models.VideoPost
	if err := h.DB.Select("id", "user_id").First(&post, "id = ?", comment.PostID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("load post %s: %v", comment.PostID, err)
		utils.DatabaseError(c, "Failed to load post")
		return
	}
	if !canModerate(c, comment.UserID) && !canModerate(c, post.UserID) {
		utils.Forbidden(c, "You can only delete your own comments")
		return
	}

	if err := h.DB.Delete(&comment).Error; err != nil {
		log.Errorf("delete comment %s: %v", comment.ID, err)
		utils.DatabaseError(c, "Failed to delete comment")
		return
	}
	utils.Success(c, "Comment deleted", nil)
}
