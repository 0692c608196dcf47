package models

// SchedulingFlags are forwarded untouched to the remote booking service.
type SchedulingFlags struct {
	ByUser   Flag   `json:"agendar_usuario"`    // schedule against the assigned user
	ByBranch Flag   `json:"agendar_sucursal"`   // schedule against a branch
	Branch   string `json:"sucursal,omitempty"` // branch name when ByBranch is set
}

// ValidationRequest asks whether an appointment can be placed.
type ValidationRequest struct {
	CompanyID       int    `json:"id_empresa" binding:"required"`
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string `json:"time" binding:"required"` // "10:30 AM", "10:30AM" or "14:30"
	DurationMinutes int    `json:"duration_minutes"`        // 0 means 60
	Slots           int    `json:"slots"`                   // 0 means 60
	SchedulingFlags
}

// ValidationResult is the verdict plus a sentence suitable for the end user.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
