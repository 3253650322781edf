package core

import (
	"fmt"
	"time"
)

// DefaultCurrency is assumed for assets recorded before currencies existed.
const DefaultCurrency = "USD"

type (
	User struct {
		ID        ID     `json:"_id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	// PublicUser is the view of a user handed to callers; it never carries the password.
	PublicUser struct {
		ID        ID     `json:"_id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}

	// AuthResult is returned by signup and login.
	AuthResult struct {
		Token string     `json:"token"`
		User  PublicUser `json:"user"`
	}

	Asset struct {
		ID       ID      `json:"_id"`
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Value    float64 `json:"value"` // negative for debts
		Currency string  `json:"currency,omitempty"`
		UserID   ID      `json:"userId"`
	}

	AssetPatch struct {
		Name     *string  `json:"name,omitempty"`
		Type     *string  `json:"type,omitempty"`
		Value    *float64 `json:"value,omitempty"`
		Currency *string  `json:"currency,omitempty"`
	}

	GrowthSample struct {
		ID             ID      `json:"_id"`
		PortfolioValue float64 `json:"portfolioValue"`
		Month          string  `json:"month"` // YYYY-MM
		IsInitialValue bool    `json:"isInitialValue"`
		UserID         ID      `json:"userId"`
	}

	GoalField struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		Percentage   float64 `json:"percentage"`
		Amount       float64 `json:"amount"`
		TargetAmount float64 `json:"targetAmount"`
	}

	// GoalsDocument is the single savings allocation of a user. TotalAmount
	// is kept exactly as the user typed it.
	GoalsDocument struct {
		ID          ID          `json:"_id"`
		TotalAmount string      `json:"totalAmount"`
		GoalFields  []GoalField `json:"goalFields"`
		UserID      ID          `json:"userId"`
		UpdatedAt   time.Time   `json:"updatedAt"`
	}
)

// SessionToken derives the opaque token handed out for a user.
func SessionToken(userID ID) string {
	return "local-token-" + string(userID)
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// Normalized fills fields missing from legacy records.
func (a Asset) Normalized() Asset {
	if a.Currency == "" {
		a.Currency = DefaultCurrency
	}
	return a
}

// IsDebt reports whether the asset is a liability.
func (a Asset) IsDebt() bool { return a.Value < 0 }

// Apply shallow-merges the non-nil fields of p into a.
func (p AssetPatch) Apply(a Asset) Asset {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Value != nil {
		a.Value = *p.Value
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	return a
}

// MonthOf formats t as YYYY-MM in loc.
func MonthOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01")
}

// ValidMonth reports whether s is a YYYY-MM month.
func ValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

func (g GrowthSample) String() string {
	return fmt.Sprintf("%s %.2f", g.Month, g.PortfolioValue)
}
