package logging

// Standardized field names for structured logging.
const (
	FieldBucketID     = "bucket_id"
	FieldBucketName   = "bucket_name"
	FieldBucketType   = "bucket_type"
	FieldVersion      = "version"
	FieldMonth        = "month"
	FieldAmount       = "amount"
	FieldWant         = "want"
	FieldBalance      = "balance"
	FieldRecurringID  = "recurring_id"
	FieldOccurrence   = "occurrence_date"
	FieldOperation    = "operation"
	FieldAction       = "action"
	FieldCount        = "count"
	FieldSkipped      = "skipped"
	FieldDatabasePath = "database_path"
	FieldInputFile    = "input_file"
	FieldOutputFile   = "output_file"
	FieldComponent    = "component"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatus       = "status"
	FieldDuration     = "duration"
	FieldAddress      = "address"
)
