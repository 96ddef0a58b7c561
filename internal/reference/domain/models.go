package domain

import "time"

const (
	DimensionStatus   = "status"
	DimensionCalendar = "calendar"
)

// Status is one order status. Names are matched exactly by the fact engine.
type Status struct {
	StatusKey   int64  `gorm:"column:status_key;primaryKey" json:"status_key"`
	StatusName  string `gorm:"column:status_name;type:varchar(50);not null;uniqueIndex" json:"status_name"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
}

func (Status) TableName() string { return "dim_status" }

// Calendar is one day of the calendar dimension. TimeKey is the date as YYYYMMDD.
type Calendar struct {
	TimeKey   int       `gorm:"column:time_key;primaryKey;autoIncrement:false" json:"time_key"`
	FullDate  time.Time `gorm:"column:full_date;type:date;not null;uniqueIndex" json:"full_date"`
	Year      int       `gorm:"column:year;not null" json:"year"`
	Quarter   int       `gorm:"column:quarter;not null" json:"quarter"`
	Month     int       `gorm:"column:month;not null" json:"month"`
	MonthName string    `gorm:"column:month_name;type:varchar(20);not null" json:"month_name"`
	Day       int       `gorm:"column:day;not null" json:"day"`
	DayOfWeek int       `gorm:"column:day_of_week;not null" json:"day_of_week"`
	DayName   string    `gorm:"column:day_name;type:varchar(20);not null" json:"day_name"`
	IsWeekend bool      `gorm:"column:is_weekend;not null" json:"is_weekend"`
}

func (Calendar) TableName() string { return "dim_time" }

// CalendarKey derives the calendar surrogate key of the date of t.
func CalendarKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// NewCalendarDay decomposes the UTC date of t into a calendar row.
func NewCalendarDay(t time.Time) Calendar {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := t.Weekday()
	return Calendar{
		TimeKey:   CalendarKey(t),
		FullDate:  t,
		Year:      t.Year(),
		Quarter:   (int(t.Month())-1)/3 + 1,
		Month:     int(t.Month()),
		MonthName: t.Month().String(),
		Day:       t.Day(),
		DayOfWeek: int(weekday),
		DayName:   weekday.String(),
		IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
	}
}

// VerifyResult reports a reference precondition check. A failed check is a
// result, not an error.
type VerifyResult struct {
	Dimension string   `json:"dimension"`
	RowCount  int64    `json:"row_count"`
	Success   bool     `json:"success"`
	Missing   []string `json:"missing,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// SeedResult reports how many reference rows a seed call created.
type SeedResult struct {
	Dimension string `json:"dimension"`
	Requested int    `json:"requested"`
	Inserted  int64  `json:"inserted"`
}
