package api

import (
	"context"

	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/models/dtos/responses"
	"bikerental/tracker/internal/store"
)

// BikeService is the record store as seen by the handlers. *store.BikeStore satisfies it.
type BikeService interface {
	ListAll(ctx context.Context) responses.Result[models.BikeListing]
	GetByID(ctx context.Context, id int) responses.Result[*models.Bike]
	Count(ctx context.Context) responses.Result[int]
	Toggle(ctx context.Context, req store.ToggleRequest) responses.Result[models.Transition]
	SetStatus(ctx context.Context, id int, status string, user string) responses.Result[models.Transition]
}

// SheetStatus reports whether the shared spreadsheet client exists yet.
// *sheets.Factory satisfies it.
type SheetStatus interface {
	Ready() bool
	SpreadsheetID() string
}

type Dependencies struct {
	Bikes  BikeService
	Sheets SheetStatus
}

var _ BikeService = (*store.BikeStore)(nil)

func InitDependencies(bikes BikeService, sheets SheetStatus) (*Dependencies, error) {
	if bikes == nil {
		return nil, errMissingDependency("bike store")
	}
	if sheets == nil {
		return nil, errMissingDependency("sheet client factory")
	}
	return &Dependencies{Bikes: bikes, Sheets: sheets}, nil
}

type errMissingDependency string

func (e errMissingDependency) Error() string {
	return "api: missing dependency: " + string(e)
}
