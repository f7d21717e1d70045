package httpdto

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type IngestResponse struct {
	Created int `json:"created"`
}
