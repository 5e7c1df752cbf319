// Package handler provides the JSON handlers for likes, saves and comments.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodie/internal/feature/social/domain/entity"
	"foodie/internal/feature/social/transport/http/dto"
	"foodie/internal/feature/social/usecase"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/web"
)

var errMissingRecipe = apperr.Validation("recipe_id is required")

// SocialUsecase defines the social operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SocialUsecase interface {
	ToggleLike(ctx context.Context, id identity.Identity, recipeID uint) (*usecase.LikeResult, error)
	ToggleSave(ctx context.Context, id identity.Identity, recipeID uint) (string, error)
	AddComment(ctx context.Context, id identity.Identity, recipeID uint, content string) ([]entity.CommentView, error)
}

// SocialHandler serves /like_recipe, /save_recipe and /add_comment.
type SocialHandler struct {
	social SocialUsecase
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(social SocialUsecase) *SocialHandler {
	return &SocialHandler{social: social}
}

// LikeRecipe toggles the caller's like of a recipe.
func (h *SocialHandler) LikeRecipe(c *gin.Context) {
	var req dto.RecipeReq
	if err := c.ShouldBind(&req); err != nil {
		web.JSONError(c, errMissingRecipe)
		return
	}
	id := web.CurrentIdentity(c)
	res, err := h.social.ToggleLike(c.Request.Context(), id, req.RecipeID)
	if err != nil {
		slog.Warn("toggle like failed", "error", err, "recipe_id", req.RecipeID, "user_id", id.UserID, "remote_addr", c.ClientIP())
		web.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LikeResp{Status: res.Status, LikeCount: res.LikeCount})
}

// SaveRecipe toggles the caller's bookmark of a recipe.
func (h *SocialHandler) SaveRecipe(c *gin.Context) {
	var req dto.RecipeReq
	if err := c.ShouldBind(&req); err != nil {
		web.JSONError(c, errMissingRecipe)
		return
	}
	id := web.CurrentIdentity(c)
	status, err := h.social.ToggleSave(c.Request.Context(), id, req.RecipeID)
	if err != nil {
		slog.Warn("toggle save failed", "error", err, "recipe_id", req.RecipeID, "user_id", id.UserID, "remote_addr", c.ClientIP())
		web.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaveResp{Status: status})
}

// AddComment comments on a recipe and answers with all of its comments.
func (h *SocialHandler) AddComment(c *gin.Context) {
	var req dto.CommentReq
	if err := c.ShouldBind(&req); err != nil {
		web.JSONError(c, errMissingRecipe)
		return
	}
	id := web.CurrentIdentity(c)
	comments, err := h.social.AddComment(c.Request.Context(), id, req.RecipeID, req.Content)
	if err != nil {
		slog.Warn("add comment failed", "error", err, "recipe_id", req.RecipeID, "user_id", id.UserID, "remote_addr", c.ClientIP())
		web.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentsResp{Status: "ok", Comments: dto.NewCommentList(comments)})
}
