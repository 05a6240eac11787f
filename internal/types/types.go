// Package types provides common type definitions for the treasury reporting system.
package types

// Company represents one of the two legal entities that own cheques.
type Company string

const (
	// CompanyHolding represents the holding entity
	CompanyHolding Company = "HOLDING"
	// CompanyOperadora represents the operating entity
	CompanyOperadora Company = "OPERADORA"
)

// Companies lists the two known company values in display order.
// Cheques carrying any other value are excluded from per-company splits.
var Companies = [2]Company{CompanyHolding, CompanyOperadora}

// Role represents the access level of an authorized chat identity
type Role string

const (
	// RoleAdmin can manage the subscriber registry in addition to reading reports
	RoleAdmin Role = "admin"
	// RoleOperator can read reports and subscribe to broadcasts
	RoleOperator Role = "operator"
)

// AlertKind identifies one block inside the alerts report
type AlertKind string

const (
	// AlertOverdue flags cheques past their due date still held in portfolio
	AlertOverdue AlertKind = "overdue"
	// AlertValidityCritical flags cheques about to exhaust the 30-day validity window
	AlertValidityCritical AlertKind = "validity_critical"
	// AlertConcentration flags issuers holding a critical share of the portfolio
	AlertConcentration AlertKind = "concentration"
)

// TriggerKind identifies a scheduled broadcast job
type TriggerKind string

const (
	// TriggerDailyDigest is the morning executive summary broadcast
	TriggerDailyDigest TriggerKind = "daily_digest"
	// TriggerDueTomorrow is the evening due-tomorrow alert broadcast
	TriggerDueTomorrow TriggerKind = "due_tomorrow"
	// TriggerValidity is the validity-critical check broadcast
	TriggerValidity TriggerKind = "validity"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}
