package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"avatarshop/internal/api/handlers"
	jwtMiddleware "avatarshop/internal/api/middleware"
	"avatarshop/internal/api/validation"
	"avatarshop/internal/api/ws"
	"avatarshop/internal/config"
	"avatarshop/internal/repository"
)

func SetupRoutes(e *echo.Echo, db *sqlx.DB, rdb *redis.Client, hub *ws.Hub, cfg *config.Config) {
	e.Validator = validation.New()

	e.GET("/health", healthCheck)

	requireJWT := []echo.MiddlewareFunc{
		jwtMiddleware.JWT(cfg.JWTKey),
		jwtMiddleware.ExtractUserIDFromJWT(),
	}

	wsHandler := handlers.NewWebSocketHandler(hub, cfg)
	e.GET("/api/ws", wsHandler.HandleConnection, requireJWT...)

	authHandler := handlers.NewAuthHandler(db, rdb, cfg.JWTKey)
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/user/:username", authHandler.GetBalance)

	catalogHandler := handlers.NewCatalogHandler(db, rdb)
	inventoryHandler := handlers.NewInventoryHandler(db, rdb, hub)

	catalogGroup := e.Group("/api/catalog")
	catalogGroup.GET("/items", catalogHandler.ListItems)
	catalogGroup.GET("/items/:itemId", catalogHandler.GetItem)
	catalogGroup.GET("/items/user/:userId", catalogHandler.ListItemsForUser)
	catalogGroup.GET("/owned/:userId", inventoryHandler.GetOwned)
	catalogGroup.GET("/equipped/:userId", inventoryHandler.GetEquipped)

	catalogGroup.POST("/buy", inventoryHandler.Buy, requireJWT...)
	catalogGroup.POST("/equip", inventoryHandler.Equip, requireJWT...)
	catalogGroup.POST("/unequip", inventoryHandler.Unequip, requireJWT...)

	requireAdmin := []echo.MiddlewareFunc{
		jwtMiddleware.JWT(cfg.JWTKey),
		jwtMiddleware.ExtractUserIDFromJWT(),
		jwtMiddleware.RequireAdmin(repository.NewUserRepository(db)),
	}
	catalogGroup.POST("/create", catalogHandler.CreateItem, requireAdmin...)
	catalogGroup.PUT("/edit/:itemId", catalogHandler.UpdateItem, requireAdmin...)
	catalogGroup.DELETE("/delete/:itemId", catalogHandler.DeleteItem, requireAdmin...)
}

func healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
