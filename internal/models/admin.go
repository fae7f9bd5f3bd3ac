package models

// AdminOverview is the body of the admin index: how much of each model exists
// and which database is serving them.
type AdminOverview struct {
	Users      int64  `json:"users"`
	Categories int64  `json:"categories"`
	Products   int64  `json:"products"`
	Database   string `json:"database"`
	Driver     string `json:"driver"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
