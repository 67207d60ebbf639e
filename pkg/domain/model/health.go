package model

// HealthStatus represents the health check status
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// RootStatus is returned by the root endpoint
type RootStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
