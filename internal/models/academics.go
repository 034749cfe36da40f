package models

import (
	"fmt"

	"gorm.io/datatypes"
)

// AcademicYear is a named school year, e.g. "2023-2024". Several years
// may be flagged active at once; forms only offer the active ones.
type AcademicYear struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	StartDate datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate   datatypes.Date `gorm:"not null" json:"end_date"`
	IsActive  bool           `gorm:"not null;default:false" json:"is_active"`
}

// Class is a grade level, e.g. "Grade 10". NumericValue drives sort order.
type Class struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	NumericValue int       `gorm:"uniqueIndex;not null" json:"numeric_value"`
	Sections     []Section `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Subjects     []Subject `gorm:"many2many:class_subjects" json:"subjects,omitempty"`
}

// Section is a named subdivision of a Class, e.g. "Grade 10 - A".
type Section struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:10;not null;uniqueIndex:idx_sections_name_class" json:"name"`
	ClassID        uint   `gorm:"not null;uniqueIndex:idx_sections_name_class" json:"class_id"`
	Class          Class  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ClassTeacherID *uint  `json:"class_teacher_id"`
	ClassTeacher   *User  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// Label renders the conventional "Class - Section" display name.
func (s Section) Label() string {
	if s.Class.Name == "" {
		return s.Name
	}
	return fmt.Sprintf("%s - %s", s.Class.Name, s.Name)
}

// Subject is a taught discipline, linked to one or more classes.
type Subject struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	Code       string  `gorm:"size:20;uniqueIndex;not null" json:"code"`
	IsElective bool    `gorm:"not null;default:false" json:"is_elective"`
	Classes    []Class `gorm:"many2many:class_subjects" json:"classes,omitempty"`
}

// TeacherSubjectAssignment binds a teacher to a subject taught in a
// section for an academic year. The 4-tuple is unique.
type TeacherSubjectAssignment struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	TeacherID      uint         `gorm:"not null;uniqueIndex:idx_tsa_tuple" json:"teacher_id"`
	Teacher        User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubjectID      uint         `gorm:"not null;uniqueIndex:idx_tsa_tuple" json:"subject_id"`
	Subject        Subject      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SectionID      uint         `gorm:"not null;uniqueIndex:idx_tsa_tuple" json:"section_id"`
	Section        Section      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AcademicYearID uint         `gorm:"not null;uniqueIndex:idx_tsa_tuple" json:"academic_year_id"`
	AcademicYear   AcademicYear `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
