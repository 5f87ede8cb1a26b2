package validation

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,notblank"`
	Age      int      `json:"age" validate:"required,gte=1,lte=150"`
	Hobbies  []string `json:"hobbies" validate:"required,min=1,dive,notblank"`
}

func (CreateUserRequest) fieldMessage(field string) string {
	switch field {
	case "username":
		return "Username is required and must be a non-empty string"
	case "age":
		return "Age is required and must be between 1 and 150"
	case "hobbies":
		return "Hobbies must be a non-empty array"
	case "hobbies[]":
		return "All hobbies must be non-empty strings"
	}
	return ""
}

// UpdateUserRequest is the body of PUT /api/users/:id. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username *string   `json:"username,omitempty" validate:"omitnil,notblank"`
	Age      *int      `json:"age,omitempty" validate:"omitnil,gte=1,lte=150"`
	Hobbies  *[]string `json:"hobbies,omitempty" validate:"omitnil,min=1,dive,notblank"`
}

func (UpdateUserRequest) fieldMessage(field string) string {
	switch field {
	case "username":
		return "Username must be a non-empty string"
	case "age":
		return "Age must be between 1 and 150"
	case "hobbies":
		return "Hobbies must be a non-empty array"
	case "hobbies[]":
		return "All hobbies must be non-empty strings"
	}
	return ""
}

// LinkRequest is the body of the link and unlink endpoints.
type LinkRequest struct {
	TargetUserID string `json:"targetUserId" validate:"required,notblank"`
}

func (LinkRequest) fieldMessage(string) string {
	return "targetUserId is required and must be a string"
}

// HobbyRequest is the body of POST /api/users/:id/hobby.
type HobbyRequest struct {
	Hobby string `json:"hobby" validate:"required,notblank"`
}

func (HobbyRequest) fieldMessage(string) string {
	return "Hobby is required and must be a non-empty string"
}
