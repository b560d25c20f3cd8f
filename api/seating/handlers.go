package seating

import (
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListTables serves GET /tables. ?active=true limits the list to active
// tables and ?min_capacity=N to tables seating at least N.
func (trm *TableRoutesManager) ListTables(w http.ResponseWriter, r *http.Request) {
	active, err := handling.BoolQuery(r, "active")
	if err != nil {
		handling.HandleError(err, "Invalid filters", trm.logger, w)
		return
	}

	var list []tables.Table
	switch {
	case r.URL.Query().Get("min_capacity") != "":
		minCapacity, convErr := strconv.Atoi(r.URL.Query().Get("min_capacity"))
		if convErr != nil {
			handling.HandleError(lib.NewValidationError("min_capacity must be a number"), "Invalid filters", trm.logger, w)
			return
		}
		list, err = trm.tableService.GetTablesByCapacity(r.Context(), minCapacity)
	case active != nil && *active:
		list, err = trm.tableService.GetActiveTables(r.Context())
	default:
		list, err = trm.tableService.GetAllTables(r.Context())
	}
	if err != nil {
		handling.HandleError(err, "Failed to load tables", trm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(list), gecho.Send())
}

func (trm *TableRoutesManager) ListAvailableTables(w http.ResponseWriter, r *http.Request) {
	list, err := trm.tableService.GetAvailableTables(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to load available tables", trm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(list), gecho.Send())
}

func (trm *TableRoutesManager) CountTables(w http.ResponseWriter, r *http.Request) {
	count, err := trm.tableService.CountTables(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to count tables", trm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]int{"count": count}), gecho.Send())
}

func (trm *TableRoutesManager) GetTable(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid table id", trm.logger, w)
		return
	}

	table, err := trm.tableService.GetTableByID(r.Context(), id)
	trm.respondTable(w, table, err)
}

func (trm *TableRoutesManager) GetTableByNumber(w http.ResponseWriter, r *http.Request) {
	table, err := trm.tableService.GetTableByNumber(r.Context(), chi.URLParam(r, "number"))
	trm.respondTable(w, table, err)
}

func (trm *TableRoutesManager) respondTable(w http.ResponseWriter, table *tables.Table, err error) {
	if err != nil {
		handling.HandleError(err, "Failed to load table", trm.logger, w)
		return
	}
	if table == nil {
		gecho.NotFound(w, gecho.WithMessage("Table not found"), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithData(table), gecho.Send())
}

func (trm *TableRoutesManager) CreateTable(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.TableRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid table", trm.logger, w)
		return
	}

	table := &tables.Table{
		TableNumber: body.TableNumber,
		Capacity:    body.Capacity,
		IsActive:    body.IsActive == nil || *body.IsActive,
	}

	saved, err := trm.tableService.CreateTable(r.Context(), table)
	if err != nil {
		handling.HandleError(err, "Failed to create table", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Table created"),
		gecho.WithData(saved),
		gecho.Send(),
	)
}

func (trm *TableRoutesManager) UpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid table id", trm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.TableRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid table", trm.logger, w)
		return
	}

	existing, err := trm.tableService.GetTableByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to update table", trm.logger, w)
		return
	}
	if existing == nil {
		gecho.NotFound(w, gecho.WithMessage("Table not found"), gecho.Send())
		return
	}

	existing.TableNumber = body.TableNumber
	existing.Capacity = body.Capacity
	if body.IsActive != nil {
		existing.IsActive = *body.IsActive
	}

	if err := trm.tableService.UpdateTable(r.Context(), existing); err != nil {
		handling.HandleError(err, "Failed to update table", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Table updated"),
		gecho.WithData(existing),
		gecho.Send(),
	)
}

func (trm *TableRoutesManager) SetTableActive(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid table id", trm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ActiveRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", trm.logger, w)
		return
	}

	if *body.Active {
		err = trm.tableService.ActivateTable(r.Context(), id)
	} else {
		err = trm.tableService.DeactivateTable(r.Context(), id)
	}
	if err != nil {
		handling.HandleError(err, "Failed to update table status", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Table status updated"),
		gecho.Send(),
	)
}

func (trm *TableRoutesManager) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid table id", trm.logger, w)
		return
	}

	if err := trm.tableService.DeleteTable(r.Context(), id); err != nil {
		handling.HandleError(err, "Failed to delete table", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Table deleted"),
		gecho.Send(),
	)
}
