// Command seed fills the database with a demo user and random recipes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Pallinder/go-randomdata"

	"foodie/internal/app/di"
	authadapters "foodie/internal/feature/auth/adapters"
	authentity "foodie/internal/feature/auth/domain/entity"
	authusecase "foodie/internal/feature/auth/usecase"
	recipeadapters "foodie/internal/feature/recipe/adapters"
	recipeusecase "foodie/internal/feature/recipe/usecase"
	socialadapters "foodie/internal/feature/social/adapters"
	socialusecase "foodie/internal/feature/social/usecase"
	"foodie/internal/platform/config"
	platformdb "foodie/internal/platform/db"
	jwtmw "foodie/internal/platform/jwt"
	"foodie/internal/platform/storage"
	"foodie/internal/shared/identity"
)

var dishes = []string{"Soup", "Stew", "Salad", "Curry", "Pie", "Tart", "Risotto", "Noodles", "Bake", "Skillet"}

func main() {
	n := flag.Int("n", 5, "number of recipes to insert")
	flag.Parse()

	if err := config.Load(); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := run(context.Background(), *n); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, n int) error {
	db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	if err := platformdb.Migrate(db, di.Models()...); err != nil {
		return err
	}

	images, err := di.NewImages(ctx, storage.LoadConfigFromEnv(), nil)
	if err != nil {
		return err
	}

	users := authadapters.NewUserGorm(db)
	// Registration never signs a token, so any secret will do here.
	auth := authusecase.NewAuthUsecase(users, authadapters.NewSessionGorm(db), jwtmw.NewSigner("seed"), images.Store, authusecase.Options{})
	recipes := recipeusecase.NewRecipeUsecase(
		recipeadapters.NewRecipeGorm(db),
		socialusecase.NewSocialUsecase(socialadapters.NewSocialGorm(db)),
		images.Store,
	)

	user, err := demoUser(ctx, users, auth)
	if err != nil {
		return err
	}
	id := identity.Identity{UserID: user.ID, Username: user.Username}

	for i := 0; i < n; i++ {
		r, err := recipes.Create(ctx, id, randomRecipe())
		if err != nil {
			return fmt.Errorf("recipe %d: %w", i+1, err)
		}
		slog.Info("recipe created", "id", r.ID, "title", r.Title)
	}
	slog.Info("seed completed", "user", user.Email, "recipes", n)
	return nil
}

// demoUser returns the SEED_EMAIL user, registering it first when missing.
func demoUser(ctx context.Context, users authusecase.UserRepository, auth interface {
	Register(context.Context, authusecase.RegisterInput) (*authentity.User, error)
}) (*authentity.User, error) {
	email := config.String("SEED_EMAIL", "demo@foodie.local")
	user, err := users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, authusecase.ErrUserNotFound) {
		return nil, err
	}

	password := config.String("SEED_PASSWORD", "foodie-demo")
	username := config.String("SEED_USERNAME", strings.ToLower(randomdata.SillyName()))
	user, err = auth.Register(ctx, authusecase.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("demo user registered", "email", email, "username", username)
	return user, nil
}

func randomRecipe() recipeusecase.CreateInput {
	title := fmt.Sprintf("%s %s %s", randomdata.Adjective(), randomdata.Noun(), randomdata.StringSample(dishes...))

	ingredients := make([]string, randomdata.Number(3, 8))
	for i := range ingredients {
		ingredients[i] = fmt.Sprintf("%d %s", randomdata.Number(1, 5), randomdata.Noun())
	}
	steps := make([]string, randomdata.Number(2, 6))
	for i := range steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, randomdata.Paragraph())
	}

	return recipeusecase.CreateInput{
		Title:       truncate(title, 100),
		Description: strings.TrimSpace(truncate(randomdata.Paragraph(), 500)),
		Ingredients: strings.Join(ingredients, "\n"),
		Steps:       strings.Join(steps, "\n"),
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
