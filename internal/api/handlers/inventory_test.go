package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatarshop/internal/api/dto"
	"avatarshop/internal/domain"
	"avatarshop/internal/repository"
	"avatarshop/internal/testutil"
)

func TestInventoryHandler_RequestValidation(t *testing.T) {
	e := newTestEcho()
	h := NewInventoryHandler(nil, nil, nil)
	self := uuid.New()

	cases := []struct {
		name   string
		body   interface{}
		asUser *uuid.UUID
		status int
		errMsg string
	}{
		{"malformed json", "{", &self, http.StatusBadRequest, "invalid request"},
		{"missing item", map[string]string{"userId": self.String()}, &self, http.StatusBadRequest, "itemId is required"},
		{"missing user", map[string]string{"itemId": uuid.NewString()}, &self, http.StatusBadRequest, "userId is required"},
		{"bad uuid", map[string]string{"userId": self.String(), "itemId": "7"}, &self, http.StatusBadRequest, "itemId must be a valid UUID"},
		{"anonymous", map[string]string{"userId": self.String(), "itemId": uuid.NewString()}, nil, http.StatusUnauthorized, "unauthorized"},
		{"other user", map[string]string{"userId": uuid.NewString(), "itemId": uuid.NewString()}, &self, http.StatusForbidden, "cannot act on behalf of another user"},
	}

	endpoints := map[string]func(echo.Context) error{
		"buy":     h.Buy,
		"equip":   h.Equip,
		"unequip": h.Unequip,
	}

	for endpoint, fn := range endpoints {
		for _, tc := range cases {
			t.Run(endpoint+"/"+tc.name, func(t *testing.T) {
				c, rec := newJSONContext(e, http.MethodPost, "/api/catalog/"+endpoint, tc.body, tc.asUser)
				require.NoError(t, fn(c))
				assert.Equal(t, tc.status, rec.Code)
				assert.Equal(t, tc.errMsg, decodeError(t, rec))
			})
		}
	}
}

func TestInventoryHandler_InvalidPathParam(t *testing.T) {
	e := newTestEcho()
	h := NewInventoryHandler(nil, nil, nil)

	for _, fn := range []func(echo.Context) error{h.GetOwned, h.GetEquipped} {
		c, rec := newJSONContext(e, http.MethodGet, "/", nil, nil)
		c.SetParamNames("userId")
		c.SetParamValues("not-a-uuid")

		require.NoError(t, fn(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestInventoryHandler_BuyAndEquip(t *testing.T) {
	testutil.RequireDB(t, testDB)
	e := newTestEcho()
	h := NewInventoryHandler(testDB, nil, nil)

	user := testutil.CreateUser(t, testDB, 150, 0)
	hat := testutil.CreateItem(t, testDB, domain.SlotHat, 100, domain.CurrencyGold)
	body := map[string]string{"userId": user.ID.String(), "itemId": hat.ID.String()}

	c, rec := newJSONContext(e, http.MethodPost, "/api/catalog/buy", body, &user.ID)
	require.NoError(t, h.Buy(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/api/catalog/buy", body, &user.ID)
	require.NoError(t, h.Buy(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/api/catalog/unequip", body, &user.ID)
	require.NoError(t, h.Unequip(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "item is not currently equipped", decodeError(t, rec))

	c, rec = newJSONContext(e, http.MethodPost, "/api/catalog/equip", body, &user.ID)
	require.NoError(t, h.Equip(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	var equipped dto.EquipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &equipped))
	assert.Zero(t, equipped.Displaced)

	c, rec = newJSONContext(e, http.MethodGet, "/", nil, nil)
	c.SetParamNames("userId")
	c.SetParamValues(user.ID.String())
	require.NoError(t, h.GetEquipped(c))
	var items []dto.EquippedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, hat.ID.String(), items[0].ItemID)
	assert.Equal(t, "hat", items[0].ItemType)
}

func TestInventoryHandler_BuyErrors(t *testing.T) {
	testutil.RequireDB(t, testDB)
	e := newTestEcho()
	h := NewInventoryHandler(testDB, nil, nil)

	user := testutil.CreateUser(t, testDB, 5, 0)
	pricey := testutil.CreateItem(t, testDB, domain.SlotBack, 6, domain.CurrencyGold)

	c, rec := newJSONContext(e, http.MethodPost, "/api/catalog/buy",
		map[string]string{"userId": user.ID.String(), "itemId": pricey.ID.String()}, &user.ID)
	require.NoError(t, h.Buy(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "insufficient funds", decodeError(t, rec))

	c, rec = newJSONContext(e, http.MethodPost, "/api/catalog/buy",
		map[string]string{"userId": user.ID.String(), "itemId": uuid.NewString()}, &user.ID)
	require.NoError(t, h.Buy(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/api/catalog/equip",
		map[string]string{"userId": user.ID.String(), "itemId": pricey.ID.String()}, &user.ID)
	require.NoError(t, h.Equip(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "item not owned", decodeError(t, rec))
}

func TestInventoryHandler_IdempotencyKey(t *testing.T) {
	testutil.RequireDB(t, testDB)
	e := newTestEcho()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	h := NewInventoryHandler(testDB, rdb, nil)

	user := testutil.CreateUser(t, testDB, 10, 0)
	cheap := testutil.CreateItem(t, testDB, domain.SlotHair, 4, domain.CurrencyGold)
	pricey := testutil.CreateItem(t, testDB, domain.SlotShirt, 50, domain.CurrencyGold)

	buy := func(itemID uuid.UUID, key string) int {
		c, rec := newJSONContext(e, http.MethodPost, "/api/catalog/buy",
			map[string]string{"userId": user.ID.String(), "itemId": itemID.String()}, &user.ID)
		c.Request().Header.Set(idempotencyHeader, key)
		require.NoError(t, h.Buy(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, buy(cheap.ID, "k1"))
	assert.Equal(t, http.StatusConflict, buy(cheap.ID, "k1"))

	// failed purchases release their key
	assert.Equal(t, http.StatusBadRequest, buy(pricey.ID, "k2"))
	assert.False(t, mr.Exists("idempotency:buy:"+user.ID.String()+":k2"))

	got, err := repository.NewUserRepository(testDB).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(6), got.Gold)
}
