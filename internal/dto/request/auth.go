package request

// LoginRequest accepts an email or a bare username as Identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
