package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldKey       = "key"
	FieldPrefix    = "prefix"
	FieldUserID    = "user_id"
	FieldAssetID   = "asset_id"
	FieldItemID    = "item_id"
	FieldCategory  = "category"
	FieldMonth     = "month"
	FieldValue     = "value"
	FieldCount     = "count"
	FieldVersion   = "version"
	FieldBackupKey = "backup_key"
	FieldBackend   = "backend"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentStorage   = "storage"
	ComponentStore     = "store"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
	ComponentAuth      = "auth"
	ComponentAssets    = "assets"
	ComponentGrowth    = "growth"
	ComponentGoals     = "goals"
	ComponentBudget    = "budget"
	ComponentSavings   = "savings"
	ComponentWorkspace = "workspace"
	ComponentEvents    = "events"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpRead    = "read"
	OpWrite   = "write"
	OpDelete  = "delete"
	OpDecode  = "decode"
	OpEncode  = "encode"
	OpClear   = "clear"
	OpExport  = "export"
	OpImport  = "import"
	OpBackup  = "backup"
	OpRestore = "restore"
	OpSample  = "sample"
	OpPublish = "publish"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithKey adds the storage key field
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// WithUser adds the user id field
func (f LogFields) WithUser(userID string) LogFields {
	f[FieldUserID] = userID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
