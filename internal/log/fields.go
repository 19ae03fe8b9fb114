package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldEntity        = "entity"
	FieldKey           = "key"
	FieldBackend       = "backend"
	FieldPath          = "path"
	FieldAccountID     = "account_id"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldAmountCents   = "amount_cents"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
	ComponentRepo    = "repo"
	ComponentBalance = "balance"
	ComponentEvents  = "events"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Standard operation names.
const (
	OpCreate      = "create"
	OpRead        = "read"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpList        = "list"
	OpApply       = "apply"
	OpRevert      = "revert"
	OpRecalculate = "recalculate"
	OpBackup      = "backup"
	OpBootstrap   = "bootstrap"
	OpReset       = "reset"
)
