package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bjulian5/prdash/internal/export"
	"github.com/bjulian5/prdash/internal/model"
)

// NewDashboardTable creates a new table with dashboard styling defaults
// This is a thin wrapper around lipgloss/table with opinionated defaults
func NewDashboardTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		BorderRow(false).
		BorderColumn(true).
		StyleFunc(defaultTableStyleFunc)
}

// NewSimpleTable creates a table without borders
func NewSimpleTable() *table.Table {
	return table.New().
		Border(lipgloss.Border{}).
		StyleFunc(simpleTableStyleFunc)
}

// defaultTableStyleFunc provides default styling for table cells
func defaultTableStyleFunc(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return TableHeaderStyle
	case row%2 == 0:
		return TableCellStyle
	default:
		return TableRowAltStyle
	}
}

// simpleTableStyleFunc provides styling for simple tables (no alternating rows)
func simpleTableStyleFunc(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return TableHeaderStyle
	}
	return TableCellStyle
}

// RenderRecordTable renders records with the given columns, in record order
func RenderRecordTable(records []model.Record, cols []export.Column) string {
	t := NewDashboardTable().Headers(export.Headers(cols)...)
	for _, r := range records {
		t.Row(recordCells(r, cols)...)
	}
	return t.String()
}

func recordCells(r model.Record, cols []export.Column) []string {
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		value := c.Value(r)
		switch c.Name {
		case "title":
			value = Truncate(value, Display.MaxTitleLength)
		case "status":
			value = GetStatusStyle(r.Status).Render(GetStatus(r.Status).Icon + " " + value)
		}
		if value == "" {
			value = Dim("-")
		}
		cells = append(cells, value)
	}
	return cells
}

// RenderTable renders plain string rows under headers
func RenderTable(headers []string, rows [][]string) string {
	t := NewSimpleTable().Headers(headers...)
	for _, row := range rows {
		t.Row(row...)
	}
	return t.String()
}
