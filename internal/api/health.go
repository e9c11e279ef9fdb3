package api

import (
	"encoding/json"
	"net/http"
	"time"

	"bikerental/tracker/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
//
// The server is healthy while it runs. The spreadsheet entry is "ok" once the
// client has been built, "pending" before first use, and "unconfigured" when
// no spreadsheet id is set.
func HealthCheckHandler(sheets SheetStatus, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]entities.ServiceStatus)

		sheetStatus := "pending"
		sheetDetails := "Client is built on first use"
		switch {
		case sheets.SpreadsheetID() == "":
			sheetStatus = "unconfigured"
			sheetDetails = "GOOGLE_SHEET_ID is not set"
		case sheets.Ready():
			sheetStatus = "ok"
			sheetDetails = "Spreadsheet client ready"
		}
		services["spreadsheet"] = entities.ServiceStatus{
			Status:  sheetStatus,
			Details: sheetDetails,
		}

		overallStatus := "ok"
		if sheetStatus == "unconfigured" {
			overallStatus = "degraded"
		}

		now := time.Now()
		uptime := now.Sub(upSince).Round(time.Second).String()

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince.UTC(),
			Uptime:   uptime,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
