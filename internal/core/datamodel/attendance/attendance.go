package attendance

// AttendanceRecord is the persisted shape of one entry in the "attendance"
// collection. A nil CheckOut is stored as JSON null.
type AttendanceRecord struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	CheckIn    string  `json:"checkIn"`
	CheckOut   *string `json:"checkOut"`
}
