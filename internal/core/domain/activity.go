package domain

import "time"

// ActivityAction is the verb recorded on an Activity.
type ActivityAction string

const (
	ActionViewed        ActivityAction = "viewed"
	ActionUpdated       ActivityAction = "updated"
	ActionCreated       ActivityAction = "created"
	ActionDeleted       ActivityAction = "deleted"
	ActionDownloaded    ActivityAction = "downloaded"
	ActionCompleted     ActivityAction = "completed"
	ActionStarted       ActivityAction = "started"
	ActionSubmitted     ActivityAction = "submitted"
	ActionCommented     ActivityAction = "commented"
	ActionLogin         ActivityAction = "login"
	ActionLogout        ActivityAction = "logout"
	ActionProfileUpdate ActivityAction = "profile_update"
	ActionUserCreated   ActivityAction = "user_created"
	ActionUserDeleted   ActivityAction = "user_deleted"
	ActionRoleChanged   ActivityAction = "role_changed"
	ActionFlagged       ActivityAction = "flagged"
	ActionReported      ActivityAction = "reported"
)

var activityActions = map[ActivityAction]struct{}{
	ActionViewed: {}, ActionUpdated: {}, ActionCreated: {}, ActionDeleted: {}, ActionDownloaded: {},
	ActionCompleted: {}, ActionStarted: {}, ActionSubmitted: {}, ActionCommented: {},
	ActionLogin: {}, ActionLogout: {}, ActionProfileUpdate: {},
	ActionUserCreated: {}, ActionUserDeleted: {}, ActionRoleChanged: {},
	ActionFlagged: {}, ActionReported: {},
}

func (a ActivityAction) IsValid() bool {
	_, ok := activityActions[a]
	return ok
}

// ActivityType is the coarse category used for filtering and stats.
type ActivityType string

const (
	TypeView     ActivityType = "view"
	TypeUpdate   ActivityType = "update"
	TypeCreate   ActivityType = "create"
	TypeDelete   ActivityType = "delete"
	TypeDownload ActivityType = "download"
	TypeComplete ActivityType = "complete"
	TypeStart    ActivityType = "start"
	TypeAlert    ActivityType = "alert"
	TypeEvent    ActivityType = "event"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case TypeView, TypeUpdate, TypeCreate, TypeDelete, TypeDownload,
		TypeComplete, TypeStart, TypeAlert, TypeEvent:
		return true
	}
	return false
}

// MaxActivityDescription is the longest description an Activity may carry.
const MaxActivityDescription = 500

// Activity is an append-only audit entry. UserName and UserEmail are copied
// from the actor at write time and are not resynced afterwards.
//
// The type has no mutators; repositories expose no update or delete either.
type Activity struct {
	ID          string         `json:"_id"`
	UserID      string         `json:"user"`
	UserName    string         `json:"userName"`
	UserEmail   string         `json:"userEmail"`
	Action      ActivityAction `json:"action"`
	Target      string         `json:"target"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ActivityStats is the result of counting activities grouped by type.
type ActivityStats struct {
	Total  int64        `json:"total"`
	ByType []GroupCount `json:"byType"`
}
