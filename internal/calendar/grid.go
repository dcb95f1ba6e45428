package calendar

import (
	"fmt"
	"time"
)

// Cell is one position of the month grid. Day is 0 for leading blanks.
type Cell struct {
	Day  int    `json:"day"`
	Date string `json:"date,omitempty"`
}

func (c Cell) Blank() bool {
	return c.Day == 0
}

// MonthGrid is a Sunday-first, 7-column layout: firstWeekday blank cells
// followed by one cell per day. The last row is not padded.
type MonthGrid struct {
	Year         int
	Month        time.Month
	Days         int
	FirstWeekday int
	Cells        []Cell
}

func NewMonthGrid(year int, month time.Month) MonthGrid {
	days, first := DaysInMonth(year, month)
	cells := make([]Cell, 0, first+days)
	for i := 0; i < first; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{
			Day:  d,
			Date: fmt.Sprintf("%04d-%02d-%02d", year, int(month), d),
		})
	}
	return MonthGrid{
		Year:         year,
		Month:        month,
		Days:         days,
		FirstWeekday: first,
		Cells:        cells,
	}
}

// Rows splits the cells into weeks of 7.
func (g MonthGrid) Rows() [][]Cell {
	rows := make([][]Cell, 0, (len(g.Cells)+6)/7)
	for i := 0; i < len(g.Cells); i += 7 {
		end := min(i+7, len(g.Cells))
		rows = append(rows, g.Cells[i:end])
	}
	return rows
}

// Date returns the civil date of day d of the grid's month.
func (g MonthGrid) Date(d int) time.Time {
	return time.Date(g.Year, g.Month, d, 0, 0, 0, 0, time.UTC)
}
