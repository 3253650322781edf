package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      any
		wantErr string
	}{
		{"signup ok", SignupInput{FirstName: "Ada", LastName: "L", Email: "a@x", Password: "p"}, ""},
		{"signup missing email", SignupInput{FirstName: "Ada", Password: "p"}, "email is required"},
		{"asset ok", AssetInput{Name: "Home", Type: "Real Estate", Value: 250000, Currency: "USD"}, ""},
		{"asset debt", AssetInput{Name: "Card", Type: "Debt", Value: -1500}, ""},
		{"asset bad currency", AssetInput{Name: "Home", Type: "Real Estate", Currency: "us dollar"}, "not a currency code"},
		{"item ok", BudgetItemInput{Category: Needs, Name: "Rent", Amount: 1200}, ""},
		{"item bad category", BudgetItemInput{Category: "fun", Name: "Rent"}, "needs, wants, savings"},
		{"item negative", BudgetItemInput{Category: Wants, Name: "x", Amount: -1}, "amount must be >= 0"},
		{"budget ok", BudgetInput{MonthlyIncome: 5000, Needs: 50, Wants: 30, Savings: 20, Currency: "USD"}, ""},
		{"budget over", BudgetInput{MonthlyIncome: 5000, Needs: 150, Currency: "USD"}, "needs must be <= 100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}
