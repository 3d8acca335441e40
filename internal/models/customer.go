package models

// Customer is one registration form submission. These live in a flat XML
// file rather than the database, matching the registration flow's original
// storage format.
type Customer struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	Newsletter bool   `json:"newsletter"`
	Timestamp  string `json:"timestamp"`
}
