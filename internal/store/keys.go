package store

import "wealth/internal/core"

// Flat key namespace of the workspace.
const (
	KeyUsers  = "users"
	KeyAssets = "assets"
	KeyGrowth = "growth"
	KeyGoals  = "goals"

	KeyToken  = "token"
	KeyUserID = "userId"

	KeyUserCounter   = "userCounter"
	KeyAssetCounter  = "assetCounter"
	KeyGrowthCounter = "growthCounter"
	KeyGoalCounter   = "goalCounter"

	BudgetPrefix = "budget_"
	BackupPrefix = "backup_"
)

// DomainKeys are the array keys exported and imported as a whole.
var DomainKeys = []string{KeyUsers, KeyAssets, KeyGrowth, KeyGoals}

// CounterKeys are every id counter.
var CounterKeys = []string{KeyUserCounter, KeyAssetCounter, KeyGrowthCounter, KeyGoalCounter}

// SessionKeys hold the logged-in user.
var SessionKeys = []string{KeyToken, KeyUserID}

// BudgetKey is the per-user budget document key.
func BudgetKey(userID core.ID) string { return BudgetPrefix + string(userID) }

// BackupUserPrefix is the prefix of every backup taken for userID.
func BackupUserPrefix(userID core.ID) string { return BackupPrefix + string(userID) + "_" }
