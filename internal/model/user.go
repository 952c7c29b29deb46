package model

// User is a provisioned account. PasswordHash never leaves the server.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"nombre"`
	Email        string  `json:"correo"`
	Title        *string `json:"puesto"`
	PasswordHash string  `json:"-"`
	Active       bool    `json:"-"`
}

// UserSummary is the public view of a user returned on login.
type UserSummary struct {
	ID    int64   `json:"id"`
	Name  string  `json:"nombre"`
	Email string  `json:"correo"`
	Title *string `json:"puesto"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Title: u.Title}
}
