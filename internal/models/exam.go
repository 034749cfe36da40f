package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultMaxMarks is the marks ceiling used when a schedule does not set one.
const DefaultMaxMarks = 100.0

// Exam is an examination window, optionally scoped to a class and section.
// A nil Section means the exam applies to the whole class.
type Exam struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	AcademicYearID uint           `gorm:"not null" json:"academic_year_id"`
	AcademicYear   AcademicYear   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StartDate      datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate        datatypes.Date `gorm:"not null" json:"end_date"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	Description    string         `gorm:"type:text" json:"description"`
	ExamClassID    *uint          `json:"exam_class_id"`
	ExamClass      *Class         `gorm:"constraint:OnDelete:CASCADE" json:"exam_class,omitempty"`
	SectionID      *uint          `json:"section_id"`
	Section        *Section       `gorm:"constraint:OnDelete:CASCADE" json:"section,omitempty"`
	Schedules      []ExamSchedule `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// ExamSchedule is one subject sitting within an exam. ExamClassID is
// always forced to the parent exam's class on save.
type ExamSchedule struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ExamID      uint           `gorm:"not null;index" json:"exam_id"`
	SubjectID   uint           `gorm:"not null" json:"subject_id"`
	Subject     Subject        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExamClassID uint           `gorm:"not null" json:"exam_class_id"`
	ExamClass   Class          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date        datatypes.Date `gorm:"not null" json:"date"`
	StartTime   string         `gorm:"size:5;not null" json:"start_time"`
	EndTime     string         `gorm:"size:5;not null" json:"end_time"`
	MaxMarks    float64        `gorm:"type:decimal(5,2);not null;default:100.00" json:"max_marks"`
}

// Result is one student's marks for one subject in one exam.
// (ExamID, StudentID, SubjectID) is unique; entry overwrites.
type Result struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ExamID        uint      `gorm:"not null;uniqueIndex:idx_results_exam_student_subject" json:"exam_id"`
	Exam          Exam      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StudentID     uint      `gorm:"not null;uniqueIndex:idx_results_exam_student_subject" json:"student_id"`
	Student       Student   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubjectID     uint      `gorm:"not null;uniqueIndex:idx_results_exam_student_subject" json:"subject_id"`
	Subject       Subject   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MarksObtained float64   `gorm:"type:decimal(5,2);not null" json:"marks_obtained"`
	MaxMarks      float64   `gorm:"type:decimal(5,2);not null;default:100.00" json:"max_marks"`
	Remarks       string    `gorm:"size:255" json:"remarks"`
	EnteredByID   *uint     `json:"entered_by_id"`
	EnteredBy     *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
