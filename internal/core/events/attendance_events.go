package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeAdded     = "employee.added"
	EventTypeEmployeeRemoved   = "employee.removed"
	EventTypeAttendanceAdded   = "attendance.added"
	EventTypeAttendanceUpdated = "attendance.updated"
)

// RecordEventTypes lists every event the record repository emits.
var RecordEventTypes = []string{
	EventTypeEmployeeAdded,
	EventTypeEmployeeRemoved,
	EventTypeAttendanceAdded,
	EventTypeAttendanceUpdated,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type EmployeeAddedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}

func NewEmployeeAddedEvent(employeeID, role string) *EmployeeAddedEvent {
	return &EmployeeAddedEvent{
		BaseEvent: newBase(EventTypeEmployeeAdded, map[string]interface{}{
			"employee_id": employeeID,
			"role":        role,
		}),
		EmployeeID: employeeID,
		Role:       role,
	}
}

type EmployeeRemovedEvent struct {
	BaseEvent
	EmployeeID        string `json:"employee_id"`
	AttendanceRemoved int    `json:"attendance_removed"`
}

func NewEmployeeRemovedEvent(employeeID string, attendanceRemoved int) *EmployeeRemovedEvent {
	return &EmployeeRemovedEvent{
		BaseEvent: newBase(EventTypeEmployeeRemoved, map[string]interface{}{
			"employee_id":        employeeID,
			"attendance_removed": attendanceRemoved,
		}),
		EmployeeID:        employeeID,
		AttendanceRemoved: attendanceRemoved,
	}
}

type AttendanceAddedEvent struct {
	BaseEvent
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func NewAttendanceAddedEvent(recordID, employeeID, date string) *AttendanceAddedEvent {
	return &AttendanceAddedEvent{
		BaseEvent: newBase(EventTypeAttendanceAdded, map[string]interface{}{
			"record_id":   recordID,
			"employee_id": employeeID,
			"date":        date,
		}),
		RecordID:   recordID,
		EmployeeID: employeeID,
		Date:       date,
	}
}

type AttendanceUpdatedEvent struct {
	BaseEvent
	RecordID string `json:"record_id"`
}

func NewAttendanceUpdatedEvent(recordID string) *AttendanceUpdatedEvent {
	return &AttendanceUpdatedEvent{
		BaseEvent: newBase(EventTypeAttendanceUpdated, map[string]interface{}{
			"record_id": recordID,
		}),
		RecordID: recordID,
	}
}
