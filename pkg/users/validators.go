package users

type ListUsersQuery struct {
	Limit  int    `query:"limit" default:"50" validate:"min=1,max=200"`
	Offset int    `query:"offset" validate:"min=0"`
	Role   string `query:"role" validate:"omitempty,oneof=librarian patron"`
}
