package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MonkyMars/gecho"
)

type TableService struct {
	logger *gecho.Logger
	tables TableStore
}

func NewTableService(logger *gecho.Logger, tables TableStore) *TableService {
	return &TableService{
		logger: logger,
		tables: tables,
	}
}

func validateTable(table *tables.Table) error {
	table.TableNumber = strings.TrimSpace(table.TableNumber)
	if table.TableNumber == "" {
		return lib.NewValidationError("Table number is required")
	}
	if table.Capacity <= 0 {
		return lib.NewValidationError("Capacity must be greater than 0")
	}
	return nil
}

func (ts *TableService) CreateTable(ctx context.Context, table *tables.Table) (*tables.Table, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}

	saved, err := ts.tables.Save(ctx, table)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.NewValidationError("Table number already exists: %s", table.TableNumber)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	ts.logger.Info("Created table", gecho.Field("table_number", saved.TableNumber), gecho.Field("capacity", saved.Capacity))
	return saved, nil
}

func (ts *TableService) UpdateTable(ctx context.Context, table *tables.Table) error {
	if err := validateTable(table); err != nil {
		return err
	}

	if err := ts.tables.Update(ctx, table); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return lib.NewValidationError("Table number already exists: %s", table.TableNumber)
		}
		return fmt.Errorf("failed to update table: %w", err)
	}

	ts.logger.Info("Updated table", gecho.Field("table_id", table.ID))
	return nil
}

func (ts *TableService) GetTableByID(ctx context.Context, id int64) (*tables.Table, error) {
	return ts.tables.FindByID(ctx, id)
}

func (ts *TableService) GetTableByNumber(ctx context.Context, number string) (*tables.Table, error) {
	return ts.tables.FindByNumber(ctx, strings.TrimSpace(number))
}

func (ts *TableService) GetAllTables(ctx context.Context) ([]tables.Table, error) {
	return ts.tables.FindAll(ctx)
}

func (ts *TableService) GetActiveTables(ctx context.Context) ([]tables.Table, error) {
	return ts.tables.FindActive(ctx)
}

// GetAvailableTables lists active tables without a NEW or IN_PROGRESS order.
func (ts *TableService) GetAvailableTables(ctx context.Context) ([]tables.Table, error) {
	return ts.tables.FindAvailable(ctx)
}

func (ts *TableService) GetTablesByCapacity(ctx context.Context, minCapacity int) ([]tables.Table, error) {
	if minCapacity <= 0 {
		return nil, lib.NewValidationError("Capacity must be greater than 0")
	}
	return ts.tables.FindByCapacity(ctx, minCapacity)
}

func (ts *TableService) ActivateTable(ctx context.Context, id int64) error {
	return ts.setActive(ctx, id, true)
}

func (ts *TableService) DeactivateTable(ctx context.Context, id int64) error {
	return ts.setActive(ctx, id, false)
}

func (ts *TableService) setActive(ctx context.Context, id int64, active bool) error {
	if err := ts.tables.UpdateActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update table status: %w", err)
	}
	ts.logger.Info("Updated table status", gecho.Field("table_id", id), gecho.Field("active", active))
	return nil
}

func (ts *TableService) DeleteTable(ctx context.Context, id int64) error {
	if err := ts.tables.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, lib.ErrReferenced) {
			return lib.NewValidationError("Cannot delete table with existing orders")
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}

	ts.logger.Info("Deleted table", gecho.Field("table_id", id))
	return nil
}

func (ts *TableService) CountTables(ctx context.Context) (int, error) {
	return ts.tables.Count(ctx)
}

func (ts *TableService) TableNumberExists(ctx context.Context, number string) (bool, error) {
	return ts.tables.ExistsByNumber(ctx, strings.TrimSpace(number))
}
