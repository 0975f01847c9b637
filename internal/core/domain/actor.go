package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type Admin struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type StudentStatus string

const (
	StudentActive   StudentStatus = "Active"
	StudentInactive StudentStatus = "Inactive"
)

func (s StudentStatus) Valid() bool {
	return s == StudentActive || s == StudentInactive
}

type Student struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	RollNo    string        `json:"rollNo" db:"roll_no"`
	RoomNo    string        `json:"roomNo" db:"room_no"`
	Email     string        `json:"email" db:"email"`
	Phone     string        `json:"phone" db:"phone"`
	Password  string        `json:"-" db:"password"`
	Status    StudentStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

func (s *Student) IsActive() bool {
	return s.Status == StudentActive
}

// StudentSummary is the identity embedded in admin listings of student-owned records.
type StudentSummary struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	RollNo string `json:"rollNo" db:"roll_no"`
	RoomNo string `json:"roomNo,omitempty" db:"room_no"`
	Phone  string `json:"phone,omitempty" db:"phone"`
}

func (s *Student) Summary() *StudentSummary {
	return &StudentSummary{ID: s.ID, Name: s.Name, RollNo: s.RollNo, RoomNo: s.RoomNo, Phone: s.Phone}
}
