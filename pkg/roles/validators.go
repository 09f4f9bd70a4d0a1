package roles

type CreateRolePayload struct {
	Name         string   `json:"name" mod:"trim" validate:"required,max=50"`
	Capabilities []string `json:"capabilities" validate:"dive,required"`
}

// UpdateRolePayload replaces the capability list when Capabilities is set.
type UpdateRolePayload struct {
	Name         *string   `json:"name" mod:"trim" validate:"omitempty,min=1,max=50"`
	Capabilities *[]string `json:"capabilities" validate:"omitempty,dive,required"`
}

type ListRolesQuery struct {
	Limit  int `query:"limit" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" default:"0" validate:"min=0"`
}
