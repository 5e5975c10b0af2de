package log

// Field names shared across components. Keeping them here stops the same
// fact from being logged under three different keys.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldBuilding    = "building"
	FieldUnit        = "unit"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldTaxRate     = "tax_rate"
	FieldEntryID     = "entry_id"
	FieldEntryCount  = "entry_count"
	FieldUnitCount   = "unit_count"
	FieldAmount      = "amount"
	FieldBatchID     = "batch_id"
	FieldSheetsRef   = "sheets_ref"
	FieldBackendKind = "backend"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentReport  = "report"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentImport  = "import"
	ComponentBackend = "backend"
	ComponentCache   = "cache"
)

// Operation names.
const (
	OpAppend  = "append"
	OpList    = "list"
	OpReplace = "replace"
	OpSync    = "sync"
	OpImport  = "import"
	OpReport  = "report"
	OpParse   = "parse"
	OpStartup = "startup"
)
