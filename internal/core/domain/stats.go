package domain

// GroupCount is one bucket of a grouped count. The key is serialized as _id,
// which is what the dashboard charts read.
type GroupCount struct {
	Key   string `json:"_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// UserStats summarizes the user base for the admin dashboard.
type UserStats struct {
	Total        int64        `json:"total"`
	Active       int64        `json:"active"`
	Pending      int64        `json:"pending"`
	ByRole       []GroupCount `json:"byRole"`
	ByDepartment []GroupCount `json:"byDepartment"`
}
