package models

// Teacher represents an instructor record.
type Teacher struct {
	ID       string `db:"id" json:"id"`
	UserID   string `db:"user_id" json:"userId"`
	FullName string `db:"full_name" json:"fullName"`
	Active   bool   `db:"active" json:"active"`
}
