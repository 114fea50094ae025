package dto

// PageQuery 分页查询参数，page 从 0 开始
type PageQuery struct {
	Page int `form:"page,default=0"`
	Size int `form:"size,default=50"`
}

// PageResp 分页响应
type PageResp[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}
