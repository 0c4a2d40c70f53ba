package main

import (
	"os"

	"trip-planner-server/routes"
	"trip-planner-server/services"
	"trip-planner-server/storage"
	"trip-planner-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web client (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	itineraryHandler := routes.NewItineraryHandler(storage.NewItineraryStore(db))
	generateHandler := routes.NewGenerateHandler(services.NewAIService())

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetCurrentUser)
		user.Patch("/me", accessTokenVerifierMiddleware, routes.UpdateUserProfile)
	}

	api := app.Party("/api", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		api.Get("/itineraries", itineraryHandler.GetItineraries)
		api.Post("/itineraries", itineraryHandler.CreateItinerary)
		api.Get("/itineraries/{id:uint}", itineraryHandler.GetItinerary)
		api.Put("/itineraries/{id:uint}", itineraryHandler.UpdateItinerary)
		api.Delete("/itineraries/{id:uint}", itineraryHandler.DeleteItinerary)
		api.Post("/itineraries/{id:uint}/items", itineraryHandler.CreateItineraryItem)
		api.Delete("/itineraries/{id:uint}/items/{itemID:uint}", itineraryHandler.DeleteItineraryItem)
		api.Post("/ai/generate-itinerary", generateHandler.GenerateItinerary)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	app.Listen(":" + port)
}
