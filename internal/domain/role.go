package domain

// Role identifies the kind of account an authenticated caller holds.
type Role string

const (
	// RoleDoctor may register doctors and issue recommendation links.
	RoleDoctor Role = "doctor"
	// RolePatient may browse doctors and leave reviews.
	RolePatient Role = "patient"
)

// IsValid returns true if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleDoctor, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
