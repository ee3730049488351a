package domain

import "time"

type ResourceType string

const (
	ResourcePDF   ResourceType = "pdf"
	ResourceDoc   ResourceType = "doc"
	ResourceDocx  ResourceType = "docx"
	ResourceXls   ResourceType = "xls"
	ResourceXlsx  ResourceType = "xlsx"
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceOther ResourceType = "other"
)

// AccessLevel is the minimum caller level needed to reach a resource.
type AccessLevel string

const (
	AccessPublic  AccessLevel = "public"
	AccessUser    AccessLevel = "user"
	AccessManager AccessLevel = "manager"
	AccessAdmin   AccessLevel = "admin"
)

type ResourceStatus string

const (
	ResourceActive   ResourceStatus = "active"
	ResourceArchived ResourceStatus = "archived"
	ResourceDeleted  ResourceStatus = "deleted"
)

var ResourceCategories = []string{
	"Documentation", "Planning", "Design", "HR", "Training", "Media", "Finance", "Legal", "Other",
}

// accessRank orders access levels and roles on one scale. Anonymous callers rank as public.
var accessRank = map[string]int{
	string(AccessPublic):  0,
	string(AccessUser):    1,
	string(AccessManager): 2,
	string(AccessAdmin):   3,
}

// Resource is a document or file listed in the dashboard.
type Resource struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Type         ResourceType   `json:"type"`
	Category     string         `json:"category"`
	Size         string         `json:"size"`
	URL          string         `json:"url"`
	FileName     string         `json:"fileName"`
	ObjectKey    string         `json:"-"`
	AccessLevel  AccessLevel    `json:"accessLevel"`
	AllowedUsers []string       `json:"allowedUsers"`
	UploadedBy   string         `json:"uploadedBy"`
	Views        int64          `json:"views"`
	Downloads    int64          `json:"downloads"`
	Status       ResourceStatus `json:"status"`
	Version      string         `json:"version"`
	Tags         []string       `json:"tags"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// CanAccess reports whether the caller may see the resource. A nil caller is
// anonymous and only reaches public resources without an allow-list.
func (r *Resource) CanAccess(caller *Identity) bool {
	if caller.IsAdmin() {
		return true
	}

	level := 0
	if caller != nil {
		level = accessRank[string(caller.Role)]
	}
	if level < accessRank[string(r.AccessLevel)] {
		return false
	}

	if len(r.AllowedUsers) > 0 {
		id := caller.ID()
		for _, allowed := range r.AllowedUsers {
			if id != "" && allowed == id {
				return true
			}
		}
		return false
	}
	return true
}
