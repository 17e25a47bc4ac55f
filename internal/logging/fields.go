// Package logging configures the zerolog logger and the structured field
// names shared by every CarbonCAM component.
package logging

// Structured log field names.
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldRequestID  = "request_id"
	FieldScope      = "scope"
	FieldMachineID  = "machine_id"
	FieldMaterialID = "material_id"
	FieldProfileID  = "profile_id"
	FieldAction     = "action"
	FieldRows       = "rows"
	FieldFailed     = "failed"
	FieldDurationMs = "duration_ms"
	FieldStatus     = "status"
	FieldMethod     = "method"
	FieldPath       = "path"
)
