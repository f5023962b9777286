package member

// CreateRequest is the admin payload for registering a member.
type CreateRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=50"`
	DisplayName string  `json:"display_name" validate:"omitempty,max=100"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
}

// UpdateRequest is a partial profile update. Absent fields stay unchanged.
type UpdateRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
}
