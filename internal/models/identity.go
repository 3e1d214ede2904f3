package models

// Identity is the caller extracted from a validated token. It is passed
// explicitly into service operations that make authorization decisions.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

func (i Identity) IsLibrarian() bool { return i.Role == RoleLibrarian }
