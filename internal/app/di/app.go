// Package di provides dependency injection factories for creating application components.
package di

import (
	"gorm.io/gorm"

	"foodie/internal/app/router"
	authadapters "foodie/internal/feature/auth/adapters"
	authentity "foodie/internal/feature/auth/domain/entity"
	authhandler "foodie/internal/feature/auth/transport/handler"
	authusecase "foodie/internal/feature/auth/usecase"
	recipeadapters "foodie/internal/feature/recipe/adapters"
	recipeentity "foodie/internal/feature/recipe/domain/entity"
	recipehandler "foodie/internal/feature/recipe/transport/handler"
	recipeusecase "foodie/internal/feature/recipe/usecase"
	socialadapters "foodie/internal/feature/social/adapters"
	socialentity "foodie/internal/feature/social/domain/entity"
	socialhandler "foodie/internal/feature/social/transport/handler"
	socialusecase "foodie/internal/feature/social/usecase"
	platformhandler "foodie/internal/platform/http/handler"
	jwtmw "foodie/internal/platform/jwt"
)

// Models returns every table the application migrates.
func Models() []interface{} {
	return []interface{}{
		&authentity.User{},
		&authadapters.SessionModel{},
		&recipeentity.Recipe{},
		&socialentity.Like{},
		&socialentity.SavedRecipe{},
		&socialentity.Comment{},
	}
}

// Deps is the infrastructure the features are wired from.
type Deps struct {
	DB            *gorm.DB
	Sessions      authusecase.SessionRepository
	Images        recipeusecase.ImageStore
	Signer        *jwtmw.Signer
	Auth          authusecase.Options
	RecipeOptions []recipeusecase.Option
	SecureCookie  bool
}

// NewHandlers wires repositories, usecases and handlers of every feature.
func NewHandlers(d Deps) (router.Handlers, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return router.Handlers{}, err
	}

	// Repository
	userRepo := authadapters.NewUserGorm(d.DB)
	recipeRepo := recipeadapters.NewRecipeGorm(d.DB)
	socialRepo := socialadapters.NewSocialGorm(d.DB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, d.Sessions, d.Signer, d.Images, d.Auth)
	socialUC := socialusecase.NewSocialUsecase(socialRepo)
	recipeUC := recipeusecase.NewRecipeUsecase(recipeRepo, socialUC, d.Images, d.RecipeOptions...)

	// Handler
	return router.Handlers{
		Auth:          authhandler.NewAuthHandler(authUC, d.SecureCookie),
		Recipe:        recipehandler.NewRecipeHandler(recipeUC),
		Social:        socialhandler.NewSocialHandler(socialUC),
		Health:        platformhandler.NewHealthHandler(sqlDB),
		Authenticator: authUC,
	}, nil
}
