package models

// AdminStats backs the admin dashboard counters.
type AdminStats struct {
	UsersByRole    map[UserRole]int64  `json:"users_by_role"`
	JobsByStatus   map[JobStatus]int64 `json:"jobs_by_status"`
	PendingReports int64               `json:"pending_reports"`
	TotalMessages  int64               `json:"total_messages"`
}
