package adminusers

import "locator/frontend/shared/nav"

type UserView struct {
	ID       int64  `bun:"id"`
	Username string `bun:"username"`
	Role     string `bun:"role"`
	Store    string `bun:"store"`
}

// CreateUserPayload is the create form, validated before touching the
// database.
type CreateUserPayload struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=admin clerk"`
	Store    string `validate:"max=128"`
}

type PageData struct {
	Nav          nav.TopNavData
	Users        []UserView
	Status       string
	ErrorMessage string
}
