package domain

import "time"

const RoleAdmin = "ADMIN"

// Credential is one record from the user file. Passwords are stored either as
// plaintext (legacy records) or as an argon2id hash string.
type Credential struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Role       string `json:"role"`
}

// SessionUser is the slice of a credential that lives in the session after a
// successful login. Absence from the session means anonymous.
type SessionUser struct {
	Username   string `json:"username"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Role       string `json:"role"`
}

func (u SessionUser) IsAdmin() bool { return u.Role == RoleAdmin }

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

// QuizQuestion is one entry of the quiz file. Choices are keyed by the value
// submitted from the form; Correct names the winning choice key.
type QuizQuestion struct {
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	Choices map[string]string `json:"choices"`
	Correct string            `json:"correct"`
}

type QuizResult struct {
	Score int
	Total int
}
