// Package handler provides the HTTP handlers for the recipe feature.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodie/internal/feature/recipe/domain/entity"
	"foodie/internal/feature/recipe/transport/http/dto"
	"foodie/internal/feature/recipe/usecase"
	socialdto "foodie/internal/feature/social/transport/http/dto"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/web"
)

const (
	msgRecipeAdded   = "Recipe added successfully!"
	msgRecipeUpdated = "Recipe updated successfully!"
	msgRecipeDeleted = "Recipe deleted."

	imageField = "image"
)

var errInvalidRequest = apperr.Validation("invalid request")

// RecipeUsecase defines the recipe operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type RecipeUsecase interface {
	Create(ctx context.Context, id identity.Identity, in usecase.CreateInput) (*entity.Recipe, error)
	Edit(ctx context.Context, id identity.Identity, recipeID uint, in usecase.EditInput) (*entity.Recipe, error)
	Delete(ctx context.Context, id identity.Identity, recipeID uint) error
	Get(ctx context.Context, id identity.Identity, recipeID uint) (*entity.Recipe, error)
	Details(ctx context.Context, id identity.Identity, recipeID uint) (*usecase.Details, error)
	List(ctx context.Context, id identity.Identity, sort usecase.Sort, q string) ([]entity.Card, error)
	ListMine(ctx context.Context, id identity.Identity) ([]entity.Card, error)
	ListSaved(ctx context.Context, id identity.Identity) ([]entity.Card, error)
	SuggestDescription(ctx context.Context, id identity.Identity, title, ingredients string) (string, error)
}

// RecipeHandler serves the recipe pages and the recipe JSON routes.
type RecipeHandler struct {
	recipes RecipeUsecase
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes RecipeUsecase) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// listPage renders a recipe listing page.
func (h *RecipeHandler) listPage(c *gin.Context, page string, cards []entity.Card, err error) {
	if err != nil {
		web.PageError(c, "/", err)
		return
	}
	web.RenderPage(c, page, dto.NewCardList(cards))
}

// Home renders the feed, newest first.
func (h *RecipeHandler) Home(c *gin.Context) {
	cards, err := h.recipes.List(c.Request.Context(), web.CurrentIdentity(c), usecase.SortRecent, c.Query("q"))
	if err != nil {
		// The feed is the fallback of every other page, so it cannot redirect to itself.
		web.JSONError(c, err)
		return
	}
	web.RenderPage(c, "index", dto.NewCardList(cards))
}

// ViewRecipes renders every recipe in the order selected by ?sort=.
func (h *RecipeHandler) ViewRecipes(c *gin.Context) {
	cards, err := h.recipes.List(c.Request.Context(), web.CurrentIdentity(c), usecase.ParseSort(c.Query("sort")), c.Query("q"))
	h.listPage(c, "view_recipes", cards, err)
}

// MyRecipes renders the caller's recipes.
func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	cards, err := h.recipes.ListMine(c.Request.Context(), web.CurrentIdentity(c))
	h.listPage(c, "my_recipes", cards, err)
}

// SavedRecipes renders the recipes the caller saved.
func (h *RecipeHandler) SavedRecipes(c *gin.Context) {
	cards, err := h.recipes.ListSaved(c.Request.Context(), web.CurrentIdentity(c))
	h.listPage(c, "saved_recipes", cards, err)
}

// AddRecipePage renders the new-recipe form.
func (h *RecipeHandler) AddRecipePage(c *gin.Context) {
	web.RenderPage(c, "add_recipe", nil)
}

// AddRecipe publishes a recipe from the add-recipe form.
func (h *RecipeHandler) AddRecipe(c *gin.Context) {
	id := web.CurrentIdentity(c)

	var req dto.CreateRecipeReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("add recipe bind failed", "error", err, "remote_addr", c.ClientIP())
		fail(c, "/add_recipe", errInvalidRequest)
		return
	}
	image, err := readImage(c)
	if err != nil {
		slog.Warn("add recipe image rejected", "error", err, "user_id", id.UserID, "remote_addr", c.ClientIP())
		fail(c, "/add_recipe", err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), id, usecase.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Image:       image,
	})
	if err != nil {
		slog.Warn("add recipe failed", "error", err, "user_id", id.UserID, "remote_addr", c.ClientIP())
		fail(c, "/add_recipe", err)
		return
	}

	slog.Info("recipe created", "recipe_id", recipe.ID, "user_id", id.UserID)
	if web.WantsJSON(c) {
		c.JSON(http.StatusCreated, dto.CreatedResp{Status: "ok", ID: recipe.ID})
		return
	}
	web.RedirectWithFlash(c, "/my_recipes", msgRecipeAdded)
}

// EditRecipePage renders the edit form of a recipe the caller owns.
func (h *RecipeHandler) EditRecipePage(c *gin.Context) {
	recipeID, err := pathID(c)
	if err != nil {
		web.PageError(c, "/my_recipes", err)
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), web.CurrentIdentity(c), recipeID)
	if err != nil {
		web.PageError(c, "/my_recipes", err)
		return
	}
	web.RenderPage(c, "edit_recipe", dto.NewEditPage(recipe))
}

// EditRecipe applies the edit form to a recipe the caller owns.
func (h *RecipeHandler) EditRecipe(c *gin.Context) {
	id := web.CurrentIdentity(c)
	recipeID, err := pathID(c)
	if err != nil {
		fail(c, "/my_recipes", err)
		return
	}
	back := fmt.Sprintf("/edit_recipe/%d", recipeID)

	var req dto.EditRecipeReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("edit recipe bind failed", "error", err, "remote_addr", c.ClientIP())
		fail(c, back, errInvalidRequest)
		return
	}
	image, err := readImage(c)
	if err != nil {
		fail(c, back, err)
		return
	}

	_, err = h.recipes.Edit(c.Request.Context(), id, recipeID, usecase.EditInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Image:       image,
	})
	if err != nil {
		slog.Warn("edit recipe failed", "error", err, "recipe_id", recipeID, "user_id", id.UserID, "remote_addr", c.ClientIP())
		if !errors.Is(err, apperr.ErrValidation) {
			back = "/my_recipes"
		}
		fail(c, back, err)
		return
	}

	slog.Info("recipe updated", "recipe_id", recipeID, "user_id", id.UserID)
	if web.WantsJSON(c) {
		c.JSON(http.StatusOK, web.StatusResponse{Status: "ok"})
		return
	}
	web.RedirectWithFlash(c, "/my_recipes", msgRecipeUpdated)
}

// DeleteRecipe deletes a recipe the caller owns.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id := web.CurrentIdentity(c)
	recipeID, err := pathID(c)
	if err == nil {
		err = h.recipes.Delete(c.Request.Context(), id, recipeID)
	}
	if err != nil {
		slog.Warn("delete recipe failed", "error", err, "user_id", id.UserID, "remote_addr", c.ClientIP())
		fail(c, "/my_recipes", err)
		return
	}

	slog.Info("recipe deleted", "recipe_id", recipeID, "user_id", id.UserID)
	if web.WantsJSON(c) {
		c.JSON(http.StatusOK, web.StatusResponse{Status: "deleted"})
		return
	}
	web.RedirectWithFlash(c, "/my_recipes", msgRecipeDeleted)
}

// FilterRecipes answers the feed as JSON, ordered by ?sort= and filtered by ?q=.
func (h *RecipeHandler) FilterRecipes(c *gin.Context) {
	cards, err := h.recipes.List(c.Request.Context(), web.CurrentIdentity(c), usecase.ParseSort(c.Query("sort")), c.Query("q"))
	if err != nil {
		web.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListResp{Status: "ok", Recipes: dto.NewCardList(cards)})
}

// RecipeDetails answers ?recipe_id= with the recipe and its comments.
func (h *RecipeHandler) RecipeDetails(c *gin.Context) {
	recipeID, err := parseID(c.Query("recipe_id"))
	if err != nil {
		web.JSONError(c, apperr.Validation("recipe_id is required"))
		return
	}
	details, err := h.recipes.Details(c.Request.Context(), web.CurrentIdentity(c), recipeID)
	if err != nil {
		web.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailsResp{
		Status:   "ok",
		Recipe:   dto.NewRecipeResp(details.Card),
		Comments: socialdto.NewCommentList(details.Comments),
	})
}

// SuggestDescription drafts a description from a title and ingredients.
func (h *RecipeHandler) SuggestDescription(c *gin.Context) {
	var req dto.SuggestReq
	if err := c.ShouldBind(&req); err != nil {
		web.JSONError(c, errInvalidRequest)
		return
	}
	draft, err := h.recipes.SuggestDescription(c.Request.Context(), web.CurrentIdentity(c), req.Title, req.Ingredients)
	if errors.Is(err, usecase.ErrDraftingDisabled) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, web.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	if err != nil {
		web.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuggestResp{Status: "ok", Description: draft})
}

// readImage returns the uploaded image, or nil when the form has none.
func readImage(c *gin.Context) (*usecase.ImageUpload, error) {
	if web.WantsJSON(c) {
		return nil, nil
	}
	header, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, errInvalidRequest
	}
	if header.Size > usecase.MaxImageSize {
		return nil, usecase.ErrImageTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperr.Persistence("read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, usecase.MaxImageSize+1))
	if err != nil {
		return nil, apperr.Persistence("read upload", err)
	}
	return &usecase.ImageUpload{Filename: header.Filename, Data: data}, nil
}

func pathID(c *gin.Context) (uint, error) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return 0, usecase.ErrRecipeNotFound
	}
	return id, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id %q", s)
	}
	return uint(id), nil
}

func fail(c *gin.Context, location string, err error) {
	if web.WantsJSON(c) {
		web.JSONError(c, err)
		return
	}
	web.PageError(c, location, err)
}
