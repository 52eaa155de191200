package domain

import "time"

const (
	StartingGold    uint = 100
	StartingTickets uint = 10
)

type User struct {
	Model
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	Gender    string    `json:"gender" db:"gender"`
	Gold      uint      `json:"gold" db:"gold"`
	Tickets   uint      `json:"tickets" db:"tickets"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
}

func (u *User) Wallet() Wallet {
	return Wallet{Gold: u.Gold, Tickets: u.Tickets}
}

// Wallet is a point-in-time snapshot of a user's balances.
type Wallet struct {
	Gold    uint `json:"gold" db:"gold"`
	Tickets uint `json:"tickets" db:"tickets"`
}

func (w Wallet) Balance(kind CurrencyKind) uint {
	switch kind {
	case CurrencyGold:
		return w.Gold
	case CurrencyTickets:
		return w.Tickets
	default:
		return 0
	}
}

func (w Wallet) CanAfford(kind CurrencyKind, cost uint) bool {
	if !kind.Valid() {
		return false
	}
	return w.Balance(kind) >= cost
}

// Debit returns the wallet after paying cost. Callers check CanAfford first.
func (w Wallet) Debit(kind CurrencyKind, cost uint) Wallet {
	switch kind {
	case CurrencyGold:
		w.Gold -= cost
	case CurrencyTickets:
		w.Tickets -= cost
	}
	return w
}
