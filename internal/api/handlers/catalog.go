package handlers

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"avatarshop/internal/api/dto"
	"avatarshop/internal/api/services"
	r "avatarshop/internal/redis"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(db *sqlx.DB, rdb *redis.Client) *CatalogHandler {
	return &CatalogHandler{
		catalogService: services.NewCatalogService(db, r.CatalogCache(rdb)),
	}
}

// ListItems godoc
// @Summary List catalog
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.Item
// @Router /api/catalog/items [get]
func (h *CatalogHandler) ListItems(c echo.Context) error {
	items, err := h.catalogService.List(c.Request().Context())
	if err != nil {
		return ErrInternalServerError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ItemsFromDomain(items))
}

// GetItem godoc
// @Summary Get catalog item
// @Tags catalog
// @Produce json
// @Param itemId path string true "Item ID"
// @Success 200 {object} dto.Item
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/catalog/items/{itemId} [get]
func (h *CatalogHandler) GetItem(c echo.Context) error {
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return ErrBadRequest(c, "invalid item id")
	}

	item, err := h.catalogService.Get(c.Request().Context(), itemID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return ErrNotFound(c, "item not found")
		}
		return ErrInternalServerError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ItemFromDomain(item))
}

// ListItemsForUser godoc
// @Summary List catalog with ownership
// @Description Catalog items flagged with whether the user owns them
// @Tags catalog
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} dto.Item
// @Failure 400 {object} map[string]string
// @Router /api/catalog/items/user/{userId} [get]
func (h *CatalogHandler) ListItemsForUser(c echo.Context) error {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return ErrBadRequest(c, "invalid user id")
	}

	entries, err := h.catalogService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return ErrInternalServerError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CatalogFromDomain(entries))
}

// CreateItem godoc
// @Summary Create catalog item
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ItemRequest true "Item"
// @Success 201 {object} dto.Item
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/catalog/create [post]
func (h *CatalogHandler) CreateItem(c echo.Context) error {
	input, ok, err := bindItemRequest(c)
	if !ok {
		return err
	}

	item, err := h.catalogService.Create(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidItem) {
			return ErrBadRequest(c, err.Error())
		}
		return ErrInternalServerError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ItemFromDomain(item))
}

// UpdateItem godoc
// @Summary Edit catalog item
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param itemId path string true "Item ID"
// @Param request body dto.ItemRequest true "Item"
// @Success 200 {object} dto.Item
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/catalog/edit/{itemId} [put]
func (h *CatalogHandler) UpdateItem(c echo.Context) error {
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return ErrBadRequest(c, "invalid item id")
	}

	input, ok, err := bindItemRequest(c)
	if !ok {
		return err
	}

	item, err := h.catalogService.Update(c.Request().Context(), itemID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return ErrNotFound(c, "item not found")
		case errors.Is(err, services.ErrInvalidItem):
			return ErrBadRequest(c, err.Error())
		default:
			return ErrInternalServerError(c, err)
		}
	}
	return c.JSON(http.StatusOK, dto.ItemFromDomain(item))
}

// DeleteItem godoc
// @Summary Delete catalog item
// @Description Removes the item and every inventory entry that references it
// @Tags admin
// @Produce json
// @Security Bearer
// @Param itemId path string true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/catalog/delete/{itemId} [delete]
func (h *CatalogHandler) DeleteItem(c echo.Context) error {
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return ErrBadRequest(c, "invalid item id")
	}

	if err := h.catalogService.Delete(c.Request().Context(), itemID); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return ErrNotFound(c, "item not found")
		}
		return ErrInternalServerError(c, err)
	}
	return SuccessResponse(c, "item deleted")
}

func bindItemRequest(c echo.Context) (services.ItemInput, bool, error) {
	var req dto.ItemRequest
	if err := c.Bind(&req); err != nil {
		return services.ItemInput{}, false, ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return services.ItemInput{}, false, ErrBadRequest(c, err.Error())
	}

	return services.ItemInput{
		Name:         req.Name,
		Description:  req.Description,
		Cost:         uint(*req.Cost),
		CurrencyKind: req.CurrencyKind,
		SlotType:     req.ItemType,
		Image:        req.ImageRef,
	}, true, nil
}
