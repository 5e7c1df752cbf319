// Package dto defines the request and response bodies of the social routes.
package dto

import "foodie/internal/feature/social/domain/entity"

// CommentTimeLayout formats comment timestamps.
const CommentTimeLayout = "2006-01-02 15:04"

// RecipeReq targets a recipe.
type RecipeReq struct {
	RecipeID uint `json:"recipe_id" form:"recipe_id" binding:"required"`
}

// CommentReq adds a comment to a recipe. Empty content is rejected by the usecase.
type CommentReq struct {
	RecipeID uint   `json:"recipe_id" form:"recipe_id" binding:"required"`
	Content  string `json:"content" form:"content"`
}

// LikeResp answers a like toggle.
type LikeResp struct {
	Status    string `json:"status"`
	LikeCount int64  `json:"like_count"`
}

// SaveResp answers a save toggle.
type SaveResp struct {
	Status string `json:"status"`
}

// CommentResp is one comment of a recipe.
type CommentResp struct {
	ID        uint   `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// CommentsResp lists a recipe's comments, oldest first.
type CommentsResp struct {
	Status   string        `json:"status"`
	Comments []CommentResp `json:"comments"`
}

// NewCommentList converts comments. It never returns nil.
func NewCommentList(comments []entity.CommentView) []CommentResp {
	out := make([]CommentResp, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResp{
			ID:        c.ID,
			Author:    c.Author,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.Format(CommentTimeLayout),
		})
	}
	return out
}
