package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"foodie/internal/feature/recipe/domain/entity"
	socialentity "foodie/internal/feature/social/domain/entity"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/validate"
)

const (
	// MaxImageSize is the largest accepted upload (10 MiB).
	MaxImageSize = 10 << 20
	// MaxTags caps how many image labels are kept as tags.
	MaxTags = 5
)

// allowedImageTypes maps the accepted extensions to their content type.
var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// ImageUpload is an uploaded image file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreateInput is the new-recipe form.
type CreateInput struct {
	Title       string       `field:"title" validate:"required,max=100"`
	Description string       `field:"description" validate:"required,max=500"`
	Ingredients string       `field:"ingredients" validate:"required"`
	Steps       string       `field:"steps" validate:"required"`
	Image       *ImageUpload `validate:"-"`
}

// EditInput carries a partial update. Nil fields keep their current value.
type EditInput struct {
	Title       *string      `field:"title" validate:"omitnil,max=100"`
	Description *string      `field:"description" validate:"omitnil,max=500"`
	Ingredients *string      `field:"ingredients"`
	Steps       *string      `field:"steps"`
	Image       *ImageUpload `validate:"-"`
}

// Details is a recipe page: the card plus its comments, oldest first.
type Details struct {
	Card     entity.Card
	Comments []socialentity.CommentView
}

// recipeUsecase implements the recipe business logic.
type recipeUsecase struct {
	repo     RecipeRepository
	comments CommentReader
	images   ImageStore
	labeler  Labeler
	writer   DescriptionWriter
}

// Option configures optional collaborators of the recipe usecase.
type Option func(*recipeUsecase)

// WithLabeler stores labels detected in uploaded images as recipe tags.
func WithLabeler(l Labeler) Option {
	return func(u *recipeUsecase) { u.labeler = l }
}

// WithDescriptionWriter enables SuggestDescription.
func WithDescriptionWriter(w DescriptionWriter) Option {
	return func(u *recipeUsecase) { u.writer = w }
}

// NewRecipeUsecase creates a new recipeUsecase.
func NewRecipeUsecase(repo RecipeRepository, comments CommentReader, images ImageStore, opts ...Option) *recipeUsecase {
	u := &recipeUsecase{repo: repo, comments: comments, images: images}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// normalize trims the provided fields. A provided field may not be blank.
func (in *EditInput) normalize() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"ingredients", in.Ingredients},
		{"steps", in.Steps},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return apperr.Validation("%s is required", f.name)
		}
	}
	return validate.Struct(in)
}

// checkImage validates an upload and returns its storage key and content type.
func checkImage(img *ImageUpload) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", "", ErrInvalidImage
	}
	if len(img.Data) == 0 {
		return "", "", apperr.Validation("image is empty")
	}
	if len(img.Data) > MaxImageSize {
		return "", "", ErrImageTooLarge
	}
	return uuid.NewString() + ext, contentType, nil
}

// storeImage saves the upload and derives its tags. Labelling is best effort.
func (u *recipeUsecase) storeImage(ctx context.Context, img *ImageUpload) (url, tags string, err error) {
	key, contentType, err := checkImage(img)
	if err != nil {
		return "", "", err
	}
	url, err = u.images.Save(ctx, key, contentType, img.Data)
	if err != nil {
		return "", "", apperr.Persistence("store image", err)
	}
	return url, u.tags(ctx, img.Data), nil
}

func (u *recipeUsecase) tags(ctx context.Context, data []byte) string {
	if u.labeler == nil {
		return ""
	}
	labels, err := u.labeler.Labels(ctx, data)
	if err != nil {
		slog.Warn("image labelling failed", "error", err)
		return ""
	}
	if len(labels) > MaxTags {
		labels = labels[:MaxTags]
	}
	for i, l := range labels {
		labels[i] = strings.ReplaceAll(strings.TrimSpace(l), ",", " ")
	}
	return strings.Join(labels, ",")
}

// removeImage deletes an image that is no longer referenced. Failures only leave
// an orphaned file behind, so they are logged.
func (u *recipeUsecase) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := u.images.Delete(ctx, url); err != nil {
		slog.Warn("failed to delete image", "error", err, "url", url)
	}
}

// Create publishes a recipe owned by the caller.
func (u *recipeUsecase) Create(ctx context.Context, id identity.Identity, in CreateInput) (*entity.Recipe, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Ingredients = strings.TrimSpace(in.Ingredients)
	in.Steps = strings.TrimSpace(in.Steps)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	recipe := &entity.Recipe{
		UserID:      id.UserID,
		Title:       in.Title,
		Description: in.Description,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
	}
	if in.Image != nil {
		url, tags, err := u.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		recipe.ImageURL, recipe.Tags = url, tags
	}

	if err := u.repo.Create(ctx, recipe); err != nil {
		u.removeImage(ctx, recipe.ImageURL)
		return nil, apperr.Wrap("create recipe", err)
	}
	return recipe, nil
}

// Edit applies a partial update to a recipe the caller owns. A replaced image is
// removed after the update commits.
func (u *recipeUsecase) Edit(ctx context.Context, id identity.Identity, recipeID uint, in EditInput) (*entity.Recipe, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	// Fail fast before uploading anything; ownership is checked again in the transaction.
	current, err := u.repo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperr.Wrap("load recipe", err)
	}
	if !current.OwnedBy(id.UserID) {
		return nil, ErrNotOwner
	}

	var newURL, newTags string
	if in.Image != nil {
		if newURL, newTags, err = u.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	updated, oldURL, err := u.repo.UpdateOwned(ctx, recipeID, id.UserID, func(r *entity.Recipe) error {
		if in.Title != nil {
			r.Title = *in.Title
		}
		if in.Description != nil {
			r.Description = *in.Description
		}
		if in.Ingredients != nil {
			r.Ingredients = *in.Ingredients
		}
		if in.Steps != nil {
			r.Steps = *in.Steps
		}
		if newURL != "" {
			r.ImageURL, r.Tags = newURL, newTags
		}
		return nil
	})
	if err != nil {
		u.removeImage(ctx, newURL)
		return nil, apperr.Wrap("update recipe", err)
	}
	if newURL != "" && oldURL != newURL {
		u.removeImage(ctx, oldURL)
	}
	return updated, nil
}

// Delete removes a recipe the caller owns together with its likes, saves and comments.
func (u *recipeUsecase) Delete(ctx context.Context, id identity.Identity, recipeID uint) error {
	if id.Anonymous() {
		return ErrUnauthenticated
	}
	imageURL, err := u.repo.DeleteOwned(ctx, recipeID, id.UserID)
	if err != nil {
		return apperr.Wrap("delete recipe", err)
	}
	u.removeImage(ctx, imageURL)
	return nil
}

// Get returns a recipe for editing. Only its owner may load it.
func (u *recipeUsecase) Get(ctx context.Context, id identity.Identity, recipeID uint) (*entity.Recipe, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	recipe, err := u.repo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperr.Wrap("load recipe", err)
	}
	if !recipe.OwnedBy(id.UserID) {
		return nil, ErrNotOwner
	}
	return recipe, nil
}

// Details returns a recipe with its comments. Anyone may call it.
func (u *recipeUsecase) Details(ctx context.Context, id identity.Identity, recipeID uint) (*Details, error) {
	card, err := u.repo.FindCard(ctx, recipeID)
	if err != nil {
		return nil, apperr.Wrap("load recipe", err)
	}
	cards := []entity.Card{*card}
	if err := u.flag(ctx, id, cards); err != nil {
		return nil, err
	}

	comments, err := u.comments.ListComments(ctx, recipeID)
	if err != nil {
		return nil, apperr.Wrap("load comments", err)
	}
	return &Details{Card: cards[0], Comments: comments}, nil
}

// List returns the feed in the requested order, filtered by q when it is not blank.
// Like and save flags are set for authenticated callers.
func (u *recipeUsecase) List(ctx context.Context, id identity.Identity, sort Sort, q string) ([]entity.Card, error) {
	cards, err := u.repo.List(ctx, ListQuery{Sort: ParseSort(string(sort)), Search: strings.TrimSpace(q)})
	if err != nil {
		return nil, apperr.Wrap("list recipes", err)
	}
	if err := u.flag(ctx, id, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListMine returns the caller's recipes, newest first.
func (u *recipeUsecase) ListMine(ctx context.Context, id identity.Identity) ([]entity.Card, error) {
	return u.listFor(ctx, id, ListQuery{AuthorID: id.UserID})
}

// ListSaved returns the recipes the caller saved, most recently saved first.
func (u *recipeUsecase) ListSaved(ctx context.Context, id identity.Identity) ([]entity.Card, error) {
	return u.listFor(ctx, id, ListQuery{SavedBy: id.UserID})
}

func (u *recipeUsecase) listFor(ctx context.Context, id identity.Identity, q ListQuery) ([]entity.Card, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	cards, err := u.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Wrap("list recipes", err)
	}
	if err := u.flag(ctx, id, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// flag sets the caller's like and save flags on cards.
func (u *recipeUsecase) flag(ctx context.Context, id identity.Identity, cards []entity.Card) error {
	if id.Anonymous() || len(cards) == 0 {
		return nil
	}
	ids := make([]uint, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}
	liked, saved, err := u.repo.Flags(ctx, id.UserID, ids)
	if err != nil {
		return apperr.Wrap("load recipe flags", err)
	}
	for i := range cards {
		cards[i].Liked = liked[cards[i].ID]
		cards[i].Saved = saved[cards[i].ID]
	}
	return nil
}

// SuggestDescription drafts a description for a recipe from its title and ingredients.
func (u *recipeUsecase) SuggestDescription(ctx context.Context, id identity.Identity, title, ingredients string) (string, error) {
	if id.Anonymous() {
		return "", ErrUnauthenticated
	}
	if u.writer == nil {
		return "", ErrDraftingDisabled
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > entity.TitleMaxLength {
		return "", apperr.Validation("title must be at most %d characters", entity.TitleMaxLength)
	}

	draft, err := u.writer.Describe(ctx, title, strings.TrimSpace(ingredients))
	if err != nil {
		return "", err
	}
	return truncate(strings.TrimSpace(draft), entity.DescriptionMaxLength), nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
