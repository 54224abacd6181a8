package health

// represents the health check response
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Model   string `json:"model,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}
