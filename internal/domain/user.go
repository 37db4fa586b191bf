package domain

import "time"

type User struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Year       string    `json:"year,omitempty"`
	CollegeID  string    `json:"college_id,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CanAct reports whether the account is active for its role. Students and
// admins are active immediately; organizers stay inactive until an admin
// approves the account.
func (u User) CanAct() bool {
	if u.Role == RoleOrganizer {
		return u.IsApproved
	}
	return true
}
