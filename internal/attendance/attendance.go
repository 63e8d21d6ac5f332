package attendance

import (
	"time"

	attendanceDatamodel "github.com/divron/attendance/internal/core/datamodel/attendance"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Record is one employee's check-in/check-out pair for one day. A nil
// CheckOut means the employee is still clocked in.
type Record struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    string  `json:"check_in"`
	CheckOut   *string `json:"check_out"`
}

func (r *Record) IsCheckedOut() bool {
	return r.CheckOut != nil
}

// Update is a partial record. Nil pointers leave the field untouched.
// CheckOut is only applied when SetCheckOut is true, so it can be cleared
// back to null as well as set.
type Update struct {
	EmployeeID  *string
	Date        *string
	CheckIn     *string
	SetCheckOut bool
	CheckOut    *string
}

// CheckOutAt builds an Update that only sets the check-out time.
func CheckOutAt(t string) Update {
	return Update{SetCheckOut: true, CheckOut: &t}
}

// Apply merges u into r in place.
func (u Update) Apply(r *Record) {
	if u.EmployeeID != nil {
		r.EmployeeID = *u.EmployeeID
	}
	if u.Date != nil {
		r.Date = *u.Date
	}
	if u.CheckIn != nil {
		r.CheckIn = *u.CheckIn
	}
	if u.SetCheckOut {
		if u.CheckOut == nil {
			r.CheckOut = nil
		} else {
			v := *u.CheckOut
			r.CheckOut = &v
		}
	}
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

func ToDataModel(r *Record) *attendanceDatamodel.AttendanceRecord {
	return &attendanceDatamodel.AttendanceRecord{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
	}
}

func FromDataModel(r *attendanceDatamodel.AttendanceRecord) *Record {
	return &Record{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
	}
}

func FromDataModelSlice(records []attendanceDatamodel.AttendanceRecord) []*Record {
	result := make([]*Record, len(records))
	for i := range records {
		result[i] = FromDataModel(&records[i])
	}
	return result
}
