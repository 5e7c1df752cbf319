// Package dto defines the request and response bodies of the recipe routes.
package dto

import (
	"time"

	"foodie/internal/feature/recipe/domain/entity"
	socialdto "foodie/internal/feature/social/transport/http/dto"
)

// CreateRecipeReq is the add-recipe form. The image arrives as the multipart file "image".
type CreateRecipeReq struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Ingredients string `form:"ingredients" json:"ingredients"`
	Steps       string `form:"steps" json:"steps"`
}

// EditRecipeReq is the edit-recipe form. Omitted fields are left unchanged.
type EditRecipeReq struct {
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
	Ingredients *string `form:"ingredients" json:"ingredients"`
	Steps       *string `form:"steps" json:"steps"`
}

// SuggestReq asks for a description draft.
type SuggestReq struct {
	Title       string `json:"title" form:"title"`
	Ingredients string `json:"ingredients" form:"ingredients"`
}

// SuggestResp carries a description draft.
type SuggestResp struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// CreatedResp answers a JSON recipe creation.
type CreatedResp struct {
	Status string `json:"status"`
	ID     uint   `json:"id"`
}

// CardResp is one entry of a recipe listing.
type CardResp struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	LikeCount   int64     `json:"like_count"`
	SaveCount   int64     `json:"save_count"`
	Liked       bool      `json:"liked"`
	Saved       bool      `json:"saved"`
}

// RecipeResp is a full recipe.
type RecipeResp struct {
	CardResp
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
}

// ListResp is the JSON recipe feed.
type ListResp struct {
	Status  string     `json:"status"`
	Recipes []CardResp `json:"recipes"`
}

// DetailsResp is a recipe with its comments, oldest first.
type DetailsResp struct {
	Status   string        `json:"status"`
	Recipe   RecipeResp    `json:"recipe"`
	Comments []socialdto.CommentResp `json:"comments"`
}

// EditPage is the view model of the edit form.
type EditPage struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
	ImageURL    string `json:"image_url,omitempty"`
}

// NewCardResp converts a card.
func NewCardResp(c entity.Card) CardResp {
	return CardResp{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Tags:        c.TagList(),
		Author:      c.Author,
		CreatedAt:   c.CreatedAt,
		LikeCount:   c.LikeCount,
		SaveCount:   c.SaveCount,
		Liked:       c.Liked,
		Saved:       c.Saved,
	}
}

// NewCardList converts a listing. It never returns nil so the JSON is always an array.
func NewCardList(cards []entity.Card) []CardResp {
	out := make([]CardResp, 0, len(cards))
	for _, c := range cards {
		out = append(out, NewCardResp(c))
	}
	return out
}

// NewRecipeResp converts a card with its full text.
func NewRecipeResp(c entity.Card) RecipeResp {
	return RecipeResp{
		CardResp:    NewCardResp(c),
		Ingredients: c.Ingredients,
		Steps:       c.Steps,
	}
}

// NewEditPage converts a recipe to the edit form.
func NewEditPage(r *entity.Recipe) EditPage {
	return EditPage{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		ImageURL:    r.ImageURL,
	}
}
