package models

import (
	"time"

	"gorm.io/datatypes"
)

// Gender codes accepted on student records.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Student is the 1:1 academic extension of a User with role STUDENT.
type Student struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User            User           `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	AdmissionNumber string         `gorm:"size:50;uniqueIndex;not null" json:"admission_number"`
	AdmissionDate   datatypes.Date `gorm:"not null" json:"admission_date"`
	RollNumber      *int           `json:"roll_number"`
	DateOfBirth     datatypes.Date `gorm:"not null" json:"date_of_birth"`
	Gender          string         `gorm:"size:1;not null" json:"gender"`
	BloodGroup      string         `gorm:"size:5" json:"blood_group"`
	Address         string         `gorm:"type:text;not null" json:"address"`
	PhoneNumber     string         `gorm:"size:15" json:"phone_number"`
	CurrentClassID  *uint          `json:"current_class_id"`
	CurrentClass    *Class         `gorm:"constraint:OnDelete:SET NULL" json:"current_class,omitempty"`
	SectionID       *uint          `json:"section_id"`
	Section         *Section       `gorm:"constraint:OnDelete:SET NULL" json:"section,omitempty"`

	Guardians []StudentGuardian `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"guardians,omitempty"`
	Documents []StudentDocument `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentGuardian is a parent or guardian contact for a student.
type StudentGuardian struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	StudentID    uint   `gorm:"not null;index" json:"student_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Relationship string `gorm:"size:50;not null" json:"relationship"`
	PhoneNumber  string `gorm:"size:15;not null" json:"phone_number"`
	Email        string `gorm:"size:255" json:"email"`
	Occupation   string `gorm:"size:100" json:"occupation"`
}

// StudentDocument is an uploaded file attached to a student record.
type StudentDocument struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;index" json:"student_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	FileURL     string    `gorm:"size:512;not null" json:"file_url"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
