// Package model contains the domain records exchanged between the HTTP,
// service and repository layers. JSON names follow the database columns the
// dashboard client already consumes.
package model

// DateLayout is the wire and SQL format for calendar dates.
const DateLayout = "2006-01-02"

// DashboardSummary holds the record counts shown on the dashboard.
type DashboardSummary struct {
	Documents         int `json:"documentos"`
	Audits            int `json:"auditorias"`
	CorrectiveActions int `json:"acciones"`
	Indicators        int `json:"indicadores"`
}
