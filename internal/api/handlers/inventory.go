package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"avatarshop/internal/api/dto"
	"avatarshop/internal/api/services"
	r "avatarshop/internal/redis"
)

const idempotencyHeader = "Idempotency-Key"

type InventoryHandler struct {
	purchaseService  *services.PurchaseService
	equipService     *services.EquipService
	inventoryService *services.InventoryService
	idempotency      *r.Idempotency
}

func NewInventoryHandler(db *sqlx.DB, rdb *redis.Client, notifier services.BalanceNotifier) *InventoryHandler {
	return &InventoryHandler{
		purchaseService:  services.NewPurchaseService(db, r.BalanceCache(rdb), notifier),
		equipService:     services.NewEquipService(db),
		inventoryService: services.NewInventoryService(db),
		idempotency:      r.NewIdempotency(rdb, "idempotency:buy"),
	}
}

// bindInventoryRequest parses and authorizes a buy/equip/unequip body. On
// false the error response has already been written.
func bindInventoryRequest(c echo.Context) (userID, itemID uuid.UUID, ok bool, err error) {
	var req dto.InventoryRequest
	if err := c.Bind(&req); err != nil {
		return uuid.Nil, uuid.Nil, false, ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return uuid.Nil, uuid.Nil, false, ErrBadRequest(c, err.Error())
	}

	userID = uuid.MustParse(req.UserID)
	itemID = uuid.MustParse(req.ItemID)

	if ok, err := authorizeUser(c, userID); !ok {
		return uuid.Nil, uuid.Nil, false, err
	}
	return userID, itemID, true, nil
}

func inventoryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		return ErrNotFound(c, "item not found")
	case errors.Is(err, services.ErrUserNotFound):
		return ErrNotFound(c, "user not found")
	case errors.Is(err, services.ErrItemNotOwned):
		return ErrNotFound(c, "item not owned")
	case errors.Is(err, services.ErrInsufficientFunds):
		return ErrBadRequest(c, "insufficient funds")
	case errors.Is(err, services.ErrSlotLimitExceeded):
		return ErrBadRequest(c, "slot limit exceeded")
	case errors.Is(err, services.ErrNotCurrentlyEquipped):
		return ErrBadRequest(c, "item is not currently equipped")
	case errors.Is(err, services.ErrItemAlreadyOwned):
		return ErrConflict(c, "item already owned")
	default:
		return ErrInternalServerError(c, err)
	}
}

// Buy godoc
// @Summary Buy item
// @Description Debit the item price and add it to the inventory. A repeated Idempotency-Key is rejected.
// @Tags inventory
// @Accept json
// @Produce json
// @Security Bearer
// @Param Idempotency-Key header string false "Client generated request key"
// @Param request body dto.InventoryRequest true "Purchase"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/catalog/buy [post]
func (h *InventoryHandler) Buy(c echo.Context) error {
	userID, itemID, ok, err := bindInventoryRequest(c)
	if !ok {
		return err
	}

	ctx := c.Request().Context()
	key := c.Request().Header.Get(idempotencyHeader)
	if key != "" {
		key = userID.String() + ":" + key
		reserved, err := h.idempotency.Reserve(ctx, key)
		if err != nil {
			return ErrInternalServerError(c, err)
		}
		if !reserved {
			return ErrConflict(c, "duplicate request")
		}
	}

	if err := h.purchaseService.Purchase(ctx, userID, itemID); err != nil {
		if key != "" {
			if relErr := h.idempotency.Release(ctx, key); relErr != nil {
				zap.L().Warn("release idempotency key", zap.Error(relErr))
			}
		}
		return inventoryError(c, err)
	}

	return SuccessResponse(c, "item purchased")
}

// Equip godoc
// @Summary Equip item
// @Description Equip an owned item, unequipping whatever occupied its slot
// @Tags inventory
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.InventoryRequest true "Equip"
// @Success 200 {object} dto.EquipResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/catalog/equip [post]
func (h *InventoryHandler) Equip(c echo.Context) error {
	userID, itemID, ok, err := bindInventoryRequest(c)
	if !ok {
		return err
	}

	result, err := h.equipService.Equip(c.Request().Context(), userID, itemID)
	if err != nil {
		return inventoryError(c, err)
	}

	return c.JSON(http.StatusOK, dto.EquipResponse{
		Message:   "item equipped",
		Displaced: result.Displaced,
	})
}

// Unequip godoc
// @Summary Unequip item
// @Tags inventory
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.InventoryRequest true "Unequip"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/catalog/unequip [post]
func (h *InventoryHandler) Unequip(c echo.Context) error {
	userID, itemID, ok, err := bindInventoryRequest(c)
	if !ok {
		return err
	}

	if err := h.equipService.Unequip(c.Request().Context(), userID, itemID); err != nil {
		return inventoryError(c, err)
	}
	return SuccessResponse(c, "item unequipped")
}

// GetOwned godoc
// @Summary Owned items
// @Tags inventory
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} dto.OwnedItem
// @Failure 400 {object} map[string]string
// @Router /api/catalog/owned/{userId} [get]
func (h *InventoryHandler) GetOwned(c echo.Context) error {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return ErrBadRequest(c, "invalid user id")
	}

	items, err := h.inventoryService.ListOwned(c.Request().Context(), userID)
	if err != nil {
		return ErrInternalServerError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OwnedItemsFromDomain(items))
}

// GetEquipped godoc
// @Summary Equipped items
// @Description Equipped items in render order: back, pants, shirt, hair, hat, front, then the rest
// @Tags inventory
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} dto.EquippedItem
// @Failure 400 {object} map[string]string
// @Router /api/catalog/equipped/{userId} [get]
func (h *InventoryHandler) GetEquipped(c echo.Context) error {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return ErrBadRequest(c, "invalid user id")
	}

	items, err := h.inventoryService.ListEquipped(c.Request().Context(), userID)
	if err != nil {
		return ErrInternalServerError(c, err)
	}
	return c.JSON(http.StatusOK, dto.EquippedItemsFromDomain(items))
}
