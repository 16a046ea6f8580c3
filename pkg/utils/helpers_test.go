package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Account", SheetName("Account", "__c"))
	assert.Equal(t, "Work Order", SheetName("Work_Order__c", "__c"))
	assert.Equal(t, "Elevator Document Check", SheetName("Elevator_Document_Check__c", "__c"))
	assert.Equal(t, "OrderElevatorRelation", SheetName("OrderElevatorRelation__c", "__c"))
}

func TestSheetNameTruncatesToExcelLimit(t *testing.T) {
	long := strings.Repeat("Very_Long_Object_Name", 3) + "__c"
	name := SheetName(long, "__c")
	assert.LessOrEqual(t, len(name), 31)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "hello", CellString("hello"))
	assert.Equal(t, "42", CellString(float64(42)))
	assert.Equal(t, "3.14", CellString(3.14))
	assert.Equal(t, "true", CellString(true))
}

func TestIsUploadable(t *testing.T) {
	assert.True(t, IsUploadable("all_data.xlsx"))
	assert.True(t, IsUploadable("Account.CSV"))
	assert.False(t, IsUploadable("exporter.db"))
	assert.False(t, IsUploadable("notes.txt"))
}
