package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/feature/auth/usecase"
	recipeentity "foodie/internal/feature/recipe/domain/entity"
	socialentity "foodie/internal/feature/social/domain/entity"
	"foodie/internal/platform/db/dbtest"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t,
		&entity.User{},
		&recipeentity.Recipe{},
		&socialentity.Like{},
		&socialentity.SavedRecipe{},
		&socialentity.Comment{},
	)
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *entity.User {
	t.Helper()
	u := &entity.User{Username: username, Email: email, PasswordHash: "hashed"}
	require.NoError(t, db.Create(u).Error, "failed to seed user")
	return u
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)

		user := &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "hashed"}
		err := repo.Create(context.Background(), user)

		require.NoError(t, err)
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate username", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)
		seedUser(t, db, "alice", "a@x.com")

		err := repo.Create(context.Background(), &entity.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})

		assert.ErrorIs(t, err, usecase.ErrUsernameTaken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)
		seedUser(t, db, "alice", "a@x.com")

		err := repo.Create(context.Background(), &entity.User{Username: "bob", Email: "a@x.com", PasswordHash: "h"})

		assert.ErrorIs(t, err, usecase.ErrEmailTaken)
	})
}

func TestUserGorm_Find(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserGorm(db)
	alice := seedUser(t, db, "alice", "a@x.com")
	ctx := context.Background()

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserGorm_DeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserGorm(db)
	alice := seedUser(t, db, "alice", "a@x.com")
	bob := seedUser(t, db, "bob", "b@x.com")

	aliceRecipe := &recipeentity.Recipe{UserID: alice.ID, Title: "Soup", Description: "Hot soup", Ingredients: "water", Steps: "boil", ImageURL: "/static/uploads/soup.png"}
	aliceText := &recipeentity.Recipe{UserID: alice.ID, Title: "Salad", Description: "Cold", Ingredients: "leaves", Steps: "toss"}
	bobRecipe := &recipeentity.Recipe{UserID: bob.ID, Title: "Bread", Description: "Warm", Ingredients: "flour", Steps: "bake"}
	require.NoError(t, db.Create(aliceRecipe).Error)
	require.NoError(t, db.Create(aliceText).Error)
	require.NoError(t, db.Create(bobRecipe).Error)

	// bob interacts with alice's recipe; alice interacts with bob's.
	require.NoError(t, db.Create(&socialentity.Like{UserID: bob.ID, RecipeID: aliceRecipe.ID}).Error)
	require.NoError(t, db.Create(&socialentity.SavedRecipe{UserID: bob.ID, RecipeID: aliceRecipe.ID}).Error)
	require.NoError(t, db.Create(&socialentity.Comment{UserID: bob.ID, RecipeID: aliceRecipe.ID, Content: "yum"}).Error)
	require.NoError(t, db.Create(&socialentity.Like{UserID: alice.ID, RecipeID: bobRecipe.ID}).Error)
	require.NoError(t, db.Create(&socialentity.Comment{UserID: alice.ID, RecipeID: bobRecipe.ID, Content: "nice"}).Error)
	// bob's own activity on his recipe survives.
	require.NoError(t, db.Create(&socialentity.Comment{UserID: bob.ID, RecipeID: bobRecipe.ID, Content: "mine"}).Error)

	images, err := repo.DeleteCascade(context.Background(), alice.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"/static/uploads/soup.png"}, images)

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&entity.User{}))
	assert.Equal(t, int64(1), count(&recipeentity.Recipe{}))
	assert.Equal(t, int64(0), count(&socialentity.Like{}))
	assert.Equal(t, int64(0), count(&socialentity.SavedRecipe{}))
	assert.Equal(t, int64(1), count(&socialentity.Comment{}))

	_, err = repo.DeleteCascade(context.Background(), alice.ID)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
