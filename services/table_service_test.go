package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"fmt"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTable(t *testing.T) {
	store := newMockTableStore(t)
	service := NewTableService(gecho.NewDefaultLogger(), store)

	_, err := service.CreateTable(context.Background(), &tables.Table{TableNumber: "  ", Capacity: 4})
	assert.EqualError(t, err, "Table number is required")

	_, err = service.CreateTable(context.Background(), &tables.Table{TableNumber: "T1", Capacity: 0})
	assert.EqualError(t, err, "Capacity must be greater than 0")

	store.On("Save", mock.Anything, mock.MatchedBy(func(tb *tables.Table) bool { return tb.TableNumber == "T1" })).
		Return(nil, fmt.Errorf("insert table: %w", lib.ErrConflict)).Once()

	_, err = service.CreateTable(context.Background(), &tables.Table{TableNumber: " T1 ", Capacity: 4})
	require.Error(t, err)
	assert.True(t, lib.IsValidation(err))
	assert.Equal(t, "Table number already exists: T1", err.Error())
}

func TestDeleteReferencedTable(t *testing.T) {
	store := newMockTableStore(t)
	service := NewTableService(gecho.NewDefaultLogger(), store)

	store.On("DeleteByID", mock.Anything, int64(3)).Return(fmt.Errorf("delete table: %w", lib.ErrReferenced)).Once()
	store.On("DeleteByID", mock.Anything, int64(4)).Return(lib.ErrNotFound).Once()

	err := service.DeleteTable(context.Background(), 3)
	assert.EqualError(t, err, "Cannot delete table with existing orders")

	err = service.DeleteTable(context.Background(), 4)
	assert.True(t, lib.IsNotFound(err))
}

func TestGetTablesByCapacity(t *testing.T) {
	store := newMockTableStore(t)
	service := NewTableService(gecho.NewDefaultLogger(), store)

	store.On("FindByCapacity", mock.Anything, 4).Return([]tables.Table{{ID: 1, TableNumber: "T4", Capacity: 4}}, nil).Once()

	found, err := service.GetTablesByCapacity(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = service.GetTablesByCapacity(context.Background(), 0)
	assert.True(t, lib.IsValidation(err))
}

func TestTableNumberExistsTrimsInput(t *testing.T) {
	store := newMockTableStore(t)
	service := NewTableService(gecho.NewDefaultLogger(), store)

	store.On("ExistsByNumber", mock.Anything, "T7").Return(true, nil).Once()

	exists, err := service.TableNumberExists(context.Background(), " T7 ")
	require.NoError(t, err)
	assert.True(t, exists)
}
