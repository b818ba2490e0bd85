// Package v1 holds the wire types and routes of the diagnostics API.
package v1

// CollectorStatus is the response of GET /collector.
type CollectorStatus struct {
	State    string         `json:"state"`
	Services map[string]int `json:"services"`
}

// Service is one service record.
type Service struct {
	Id      string            `json:"id"`
	Type    string            `json:"type"`
	State   string            `json:"state"`
	Address string            `json:"address"`
	Main    bool              `json:"main"`
	Params  map[string]string `json:"params,omitempty"`
}

// ServiceList is the response of GET /services.
type ServiceList struct {
	Services []Service `json:"services"`
}

// ListServicesParams defines parameters for ListServices.
type ListServicesParams struct {
	Type *string `form:"type" json:"type,omitempty"`
}

// Error is returned with every non 2xx status.
type Error struct {
	Error string `json:"error"`
}
