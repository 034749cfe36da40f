package dto

import (
	"github.com/edumate/sims-api/internal/models"
)

// AttendanceEntry is one student's status within a roster submission.
type AttendanceEntry struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Remarks   string `json:"remarks" validate:"omitempty,max=255"`
}

// MarkAttendanceRequest is the batch roster payload. Students absent
// from Entries are left untouched.
type MarkAttendanceRequest struct {
	ClassID   uint              `json:"class_id" validate:"required"`
	SectionID uint              `json:"section_id" validate:"required"`
	Date      string            `json:"date" validate:"required,datetime=2006-01-02"`
	Entries   []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceReportFilter carries the report query parameters.
type AttendanceReportFilter struct {
	ClassID   *uint
	SectionID *uint
	DateFrom  string
	DateTo    string
	Status    string
	Page      int
}

// AttendanceResponse is the serialized attendance record.
type AttendanceResponse struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
	RecordedBy  *uint  `json:"recorded_by_id"`
}

// NewAttendanceResponse converts a model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		StudentName: model.Student.User.FullName(),
		Date:        FormatDate(model.Date),
		Status:      string(model.Status),
		Remarks:     model.Remarks,
		RecordedBy:  model.RecordedByID,
	}
}

// NewAttendanceResponseSlice converts a slice of models into DTOs.
func NewAttendanceResponseSlice(records []models.Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}
	return responses
}

// DashboardResponse carries the attendance dashboard counters.
type DashboardResponse struct {
	TodayAttendance int64 `json:"today_attendance"`
	PendingLeaves   int64 `json:"pending_leaves"`
}

// AdminDashboardResponse carries the school-wide admin counters.
type AdminDashboardResponse struct {
	TotalUsers    int64          `json:"total_users"`
	TotalStudents int64          `json:"total_students"`
	TotalTeachers int64          `json:"total_teachers"`
	TotalClasses  int64          `json:"total_classes"`
	TotalSubjects int64          `json:"total_subjects"`
	RecentUsers   []UserResponse `json:"recent_users"`
}
