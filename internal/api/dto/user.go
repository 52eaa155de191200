package dto

import (
	"time"

	"avatarshop/internal/domain"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Gender   string `json:"gender"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Gender    string    `json:"gender"`
	Gold      uint      `json:"gold"`
	Tickets   uint      `json:"tickets"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Balance struct {
	Gold    uint `json:"gold"`
	Tickets uint `json:"tickets"`
}

func UserFromDomain(user *domain.User) *User {
	if user == nil {
		return nil
	}
	return &User{
		ID:        user.ID.String(),
		Username:  user.Username,
		Gender:    user.Gender,
		Gold:      user.Gold,
		Tickets:   user.Tickets,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func BalanceFromDomain(w domain.Wallet) *Balance {
	return &Balance{Gold: w.Gold, Tickets: w.Tickets}
}
