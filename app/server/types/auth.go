package types

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

type Message struct {
	Message string `json:"message"`
}
