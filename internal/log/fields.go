package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldDuration   = "duration_ms"
	FieldCode       = "code"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCollection = "collection"
	FieldBackend    = "backend"
	FieldTxID       = "transaction_id"
	FieldWalletID   = "wallet_id"
	FieldBudgetID   = "budget_id"
	FieldTransferID = "transfer_group_id"
	FieldAmount     = "amount"
	FieldCount      = "count"
	FieldAddress    = "address"
	FieldYear       = "year"
	FieldMonth      = "month"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentGRPC      = "grpc"
	ComponentStorage   = "storage"
	ComponentRecords   = "records"
	ComponentLedger    = "ledger"
	ComponentBudget    = "budget"
	ComponentQuery     = "query"
	ComponentDashboard = "dashboard"
	ComponentSeeder    = "seeder"
	ComponentExport    = "export"
	ComponentSecurity  = "security"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpTransfer = "transfer"
	OpSeed     = "seed"
	OpMigrate  = "migrate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
