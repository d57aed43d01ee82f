package domain

import "strconv"

// User models the authenticated backend account. Read-only here: accounts are
// created and owned by the content backend.
type User struct {
	ID                 int    `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
}

// Cliente is the customer entity associated with a logged-in user. DocumentID
// is the stable cross-reference key; the numeric ID may differ between
// differently-populated backend responses and is only a matching fallback.
type Cliente struct {
	ID         int      `json:"id"`
	DocumentID string   `json:"documentId"`
	Nombre     string   `json:"nombre,omitempty"`
	Email      string   `json:"email,omitempty"`
	Telefono   string   `json:"telefono,omitempty"`
	Direccion  string   `json:"direccion,omitempty"`
	Obras      []Entity `json:"obras,omitempty"`
}

// PlaceholderCliente synthesizes a Cliente from user fields when the login
// response carries no embedded cliente relation.
func PlaceholderCliente(u User) Cliente {
	return Cliente{
		ID:         u.ID,
		DocumentID: "user-" + strconv.Itoa(u.ID),
		Nombre:     u.Username,
		Email:      u.Email,
	}
}
