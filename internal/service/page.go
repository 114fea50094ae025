package service

import (
	"product_trial_back/internal/repository"
)

const (
	// DefaultPageSize 默认每页条数
	DefaultPageSize = 50
	// MaxPageSize 每页条数上限（不含）
	MaxPageSize = 200
)

// NewPage 校验分页参数，page 从 0 开始
func NewPage(page, size int) (repository.Page, error) {
	if page < 0 {
		return repository.Page{}, ErrInvalidPage
	}
	if size <= 0 {
		return repository.Page{}, ErrInvalidPageSize
	}
	if size >= MaxPageSize {
		return repository.Page{}, ErrPageSizeTooBig
	}
	return repository.Page{Page: page, Size: size}, nil
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  repository.Page
}

// TotalPages 总页数
func (r PageResult[T]) TotalPages() int {
	if r.Page.Size <= 0 {
		return 0
	}
	return int((r.Total + int64(r.Page.Size) - 1) / int64(r.Page.Size))
}
