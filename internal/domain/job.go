package domain

import (
	"time"

	"github.com/google/uuid"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	}
	return false
}

type Job struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Title          string         `db:"title" json:"title"`
	Department     *string        `db:"department" json:"department,omitempty"`
	Location       *string        `db:"location" json:"location,omitempty"`
	EmploymentType EmploymentType `db:"employment_type" json:"employmentType"`
	Description    string         `db:"description" json:"description"`
	Requirements   *string        `db:"requirements" json:"requirements,omitempty"`
	IsOpen         bool           `db:"is_open" json:"isOpen"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
	DeletedAt      *time.Time     `db:"deleted_at" json:"-"`
}

type JobInput struct {
	Title          string
	Department     *string
	Location       *string
	EmploymentType EmploymentType
	Description    string
	Requirements   *string
	IsOpen         bool
}

type JobApplication struct {
	ID           uuid.UUID `db:"id" json:"id"`
	JobID        uuid.UUID `db:"job_id" json:"jobId"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	MobileNumber string    `db:"mobile_number" json:"mobileNumber"`
	CoverLetter  *string   `db:"cover_letter" json:"coverLetter,omitempty"`
	CVObjectKey  string    `db:"cv_object_key" json:"cvObjectKey"`
	CVURL        string    `db:"cv_url" json:"cvUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
