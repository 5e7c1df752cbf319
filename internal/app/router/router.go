// Package router builds the gin engine and its route table.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "foodie/internal/feature/auth/transport/handler"
	recipehandler "foodie/internal/feature/recipe/transport/handler"
	"foodie/internal/feature/recipe/usecase"
	socialhandler "foodie/internal/feature/social/transport/handler"
	platformhandler "foodie/internal/platform/http/handler"
	jwtmw "foodie/internal/platform/jwt"
	"foodie/internal/shared/web"
)

const loginPath = "/login"

// Handlers are the route handlers the engine dispatches to.
type Handlers struct {
	Auth          *authhandler.AuthHandler
	Recipe        *recipehandler.RecipeHandler
	Social        *socialhandler.SocialHandler
	Health        *platformhandler.HealthHandler
	Authenticator jwtmw.Authenticator
}

// Config holds the engine settings that do not belong to a handler.
type Config struct {
	// CORSOrigins enables CORS with credentials for these origins when not empty.
	CORSOrigins []string
	// StaticPrefix and StaticDir serve uploaded images when both are set.
	StaticPrefix string
	StaticDir    string
}

// requireSession answers anonymous JSON callers with 401 and sends anonymous
// browsers to the login page.
func requireSession() gin.HandlerFunc {
	page, api := jwtmw.RequirePage(loginPath), jwtmw.RequireJSON()
	return func(c *gin.Context) {
		if web.WantsJSON(c) {
			api(c)
			return
		}
		page(c)
	}
}

// NewRouter returns the engine serving every page and JSON route.
func NewRouter(h Handlers, cfg Config) *gin.Engine {
	r := gin.Default()
	// Uploads above this size spill to temporary files instead of memory.
	r.MaxMultipartMemory = usecase.MaxImageSize

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.StaticPrefix != "" && cfg.StaticDir != "" {
		r.Static(cfg.StaticPrefix, cfg.StaticDir)
	}

	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	// Every route below knows its caller when a valid session is presented.
	r.Use(jwtmw.Authenticate(h.Authenticator))

	r.GET("/", h.Recipe.Home)
	r.GET("/view_recipes", h.Recipe.ViewRecipes)
	r.GET("/filter_recipes", h.Recipe.FilterRecipes)
	r.GET("/get_recipe_details", h.Recipe.RecipeDetails)

	r.GET("/register", h.Auth.RegisterPage)
	r.POST("/register", h.Auth.Register)
	r.GET(loginPath, h.Auth.LoginPage)
	r.POST(loginPath, h.Auth.Login)
	// Without a session logout only clears the cookie.
	r.GET("/logout", h.Auth.Logout)

	auth := r.Group("/", requireSession())
	{
		auth.GET("/add_recipe", h.Recipe.AddRecipePage)
		auth.POST("/add_recipe", h.Recipe.AddRecipe)
		auth.GET("/edit_recipe/:id", h.Recipe.EditRecipePage)
		auth.POST("/edit_recipe/:id", h.Recipe.EditRecipe)
		auth.POST("/delete_recipe/:id", h.Recipe.DeleteRecipe)
		auth.GET("/delete_recipe/:id", h.Recipe.DeleteRecipe)
		auth.GET("/my_recipes", h.Recipe.MyRecipes)
		auth.GET("/saved_recipes", h.Recipe.SavedRecipes)
		auth.POST("/delete_account", h.Auth.DeleteAccount)
	}

	api := r.Group("/", jwtmw.RequireJSON())
	{
		api.POST("/like_recipe", h.Social.LikeRecipe)
		api.POST("/save_recipe", h.Social.SaveRecipe)
		api.POST("/add_comment", h.Social.AddComment)
		api.POST("/suggest_description", h.Recipe.SuggestDescription)
	}

	return r
}
