package models

import (
	"time"

	"gorm.io/datatypes"
)

// AttendanceStatus enumerates the per-day attendance outcomes.
type AttendanceStatus string

// Attendance statuses.
const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid reports whether the status is one of the known values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Attendance is one student's record for one day. (StudentID, Date) is
// unique; marking the same day again overwrites the existing row.
type Attendance struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	StudentID    uint             `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"student_id"`
	Student      Student          `gorm:"constraint:OnDelete:CASCADE" json:"student"`
	Date         datatypes.Date   `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"date"`
	Status       AttendanceStatus `gorm:"size:10;not null;default:PRESENT" json:"status"`
	Remarks      string           `gorm:"size:255" json:"remarks"`
	RecordedByID *uint            `json:"recorded_by_id"`
	RecordedBy   *User            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// LeaveStatus enumerates the leave application workflow states.
type LeaveStatus string

// Leave statuses. PENDING is the only non-terminal state.
const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// LeaveApplication is a dated absence request raised by any user.
type LeaveApplication struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	User         User           `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	StartDate    datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate      datatypes.Date `gorm:"not null" json:"end_date"`
	Reason       string         `gorm:"type:text;not null" json:"reason"`
	Status       LeaveStatus    `gorm:"size:10;not null;default:PENDING" json:"status"`
	ApprovedByID *uint          `json:"approved_by_id"`
	ApprovedBy   *User          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
}
