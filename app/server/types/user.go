package types

type UserInfo struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

type UserCreateRequest struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

type UserListParams struct {
	Page  *uint `query:"page"`
	Limit *uint `query:"limit"`
}

type UserListResponse struct {
	Limit   int        `json:"limit"`
	PageMax int64      `json:"page_max"`
	Total   int64      `json:"total"`
	List    []UserInfo `json:"list"`
}
