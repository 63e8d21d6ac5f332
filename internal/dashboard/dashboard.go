package dashboard

import (
	"time"

	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/employee"
)

// Snapshot is one consistent read of both collections.
type Snapshot struct {
	Employees   []*employee.Employee
	Attendance  []*attendance.Record
	RefreshedAt time.Time
}

type PresenceEntry struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	CheckIn    string  `json:"check_in"`
	CheckOut   *string `json:"check_out"`
}

type Summary struct {
	Date           string          `json:"date"`
	TotalStaff     int             `json:"total_staff"`
	TotalRecords   int             `json:"total_records"`
	PresentToday   int             `json:"present_today"`
	CheckedOut     int             `json:"checked_out_today"`
	StillCheckedIn int             `json:"still_checked_in"`
	Absent         int             `json:"absent_today"`
	Today          []PresenceEntry `json:"today"`
	RefreshedAt    time.Time       `json:"refreshed_at"`
}

// Summarize computes the admin view of snap for the given day.
func Summarize(snap *Snapshot, date string) Summary {
	s := Summary{
		Date:         date,
		TotalRecords: len(snap.Attendance),
		Today:        []PresenceEntry{},
		RefreshedAt:  snap.RefreshedAt,
	}

	staff := make(map[string]*employee.Employee)
	for _, e := range snap.Employees {
		if e.IsAdmin() {
			continue
		}
		s.TotalStaff++
		if _, ok := staff[e.ID]; !ok {
			staff[e.ID] = e
		}
	}

	present := make(map[string]bool)
	for _, rec := range snap.Attendance {
		if rec.Date != date || present[rec.EmployeeID] {
			continue
		}
		e, ok := staff[rec.EmployeeID]
		if !ok {
			continue
		}
		present[rec.EmployeeID] = true

		if rec.IsCheckedOut() {
			s.CheckedOut++
		} else {
			s.StillCheckedIn++
		}
		s.Today = append(s.Today, PresenceEntry{
			EmployeeID: e.ID,
			Name:       e.Name,
			Department: e.Department,
			CheckIn:    rec.CheckIn,
			CheckOut:   rec.CheckOut,
		})
	}

	s.PresentToday = len(present)
	s.Absent = s.TotalStaff - s.PresentToday
	return s
}
