package service

import (
	"errors"
)

// ==================== 错误分类 ====================

// 分类错误，controller 按分类映射 HTTP 状态码
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
)

// categorized 带分类的业务错误，Error() 即返回给客户端的消息
type categorized struct {
	category error
	msg      string
}

func (e *categorized) Error() string { return e.msg }
func (e *categorized) Unwrap() error { return e.category }

func newError(category error, msg string) error {
	return &categorized{category: category, msg: msg}
}

// ==================== 业务错误 ====================

var (
	ErrInvalidCredentials = newError(ErrUnauthenticated, "Invalid credentials")

	ErrAccountNotFound      = newError(ErrNotFound, "User not found")
	ErrOwnerNotFound        = newError(ErrNotFound, "Owner account not found")
	ErrProductNotFound      = newError(ErrNotFound, "Product not found")
	ErrCartItemNotFound     = newError(ErrNotFound, "Cart item not found")
	ErrWishlistItemNotFound = newError(ErrNotFound, "Wishlist item not found")

	ErrAlreadyExists            = newError(ErrConflict, "Item already exists")
	ErrProductAlreadyInCart     = newError(ErrAlreadyExists, "Product already in cart")
	ErrProductAlreadyInWishlist = newError(ErrAlreadyExists, "Product already in wishlist")
	ErrEmailTaken               = newError(ErrConflict, "Email already registered")
	ErrProductCodeTaken         = newError(ErrConflict, "Product code already exists")

	ErrInvalidPage      = newError(ErrInvalidInput, "Page index must not be less than zero")
	ErrInvalidPageSize  = newError(ErrInvalidInput, "Page size must be greater than zero")
	ErrPageSizeTooBig   = newError(ErrInvalidInput, "Page size must be less than 200")
	ErrInvalidQuantity  = newError(ErrInvalidInput, "Quantity must be at least 1")
	ErrQuantityTooLarge = newError(ErrInvalidInput, "Quantity must not exceed 10000")
)
