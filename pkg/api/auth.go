package api

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Operator  string `json:"operator"`
	ExpiresAt int64  `json:"expiresAt"`
}
