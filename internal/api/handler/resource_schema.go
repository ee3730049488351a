package handler

type createResourceRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description,omitempty" validate:"max=1000"`
	Type         string   `json:"type" validate:"required,oneof=pdf doc docx xls xlsx image video other"`
	Category     string   `json:"category" validate:"required"`
	Size         string   `json:"size" validate:"required"`
	URL          string   `json:"url" validate:"required,url"`
	FileName     string   `json:"fileName" validate:"required"`
	ObjectKey    string   `json:"objectKey,omitempty"`
	AccessLevel  string   `json:"accessLevel,omitempty" validate:"omitempty,oneof=public user manager admin"`
	AllowedUsers []string `json:"allowedUsers,omitempty"`
	Version      string   `json:"version,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type downloadResponse struct {
	URL string `json:"url"`
}
