package report

import (
	"strconv"
	"time"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/employee"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	unknownEmployee = "Unknown"
	missingSalary   = "N/A"
	notCheckedOut   = "Not checked out"
)

var Header = []string{"Employee Name", "Department", "Salary", "Date", "Check In", "Check Out"}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return p, nil
	}
	return "", apperrors.NewValidationFieldError("period", "period must be daily, monthly or yearly", apperrors.ErrCodeInvalidPeriod)
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", apperrors.NewValidationFieldError("format", "format must be csv or xlsx", apperrors.ErrCodeInvalidFormat)
}

func (p Period) layout() string {
	switch p {
	case PeriodMonthly:
		return "2006-01"
	case PeriodYearly:
		return "2006"
	default:
		return attendance.DateLayout
	}
}

// Matches reports whether the record date falls in the same day, month or
// year as selected. Dates that do not parse never match.
func (p Period) Matches(recordDate string, selected time.Time) bool {
	d, err := time.Parse(attendance.DateLayout, recordDate)
	if err != nil {
		return false
	}
	layout := p.layout()
	return d.Format(layout) == selected.Format(layout)
}

// Row is one rendered report line, in Header order.
type Row [6]string

// Build joins the records of the period with their employees. Record order
// is kept.
func Build(employees []*employee.Employee, records []*attendance.Record, period Period, selected time.Time) []Row {
	byID := make(map[string]*employee.Employee, len(employees))
	for _, e := range employees {
		if _, seen := byID[e.ID]; !seen {
			byID[e.ID] = e
		}
	}

	rows := make([]Row, 0)
	for _, rec := range records {
		if !period.Matches(rec.Date, selected) {
			continue
		}

		name, department, salary := unknownEmployee, unknownEmployee, missingSalary
		if e, ok := byID[rec.EmployeeID]; ok {
			name = orDefault(e.Name, unknownEmployee)
			department = orDefault(e.Department, unknownEmployee)
			salary = formatSalary(e.Salary)
		}

		checkOut := notCheckedOut
		if rec.CheckOut != nil && *rec.CheckOut != "" {
			checkOut = *rec.CheckOut
		}

		rows = append(rows, Row{name, department, salary, rec.Date, rec.CheckIn, checkOut})
	}
	return rows
}

// FileName is the download name for a report of the given period and date.
func FileName(period Period, date string, format Format) string {
	return "attendance-report-" + string(period) + "-" + date + "." + string(format)
}

func formatSalary(v *float64) string {
	if v == nil || *v == 0 {
		return missingSalary
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
