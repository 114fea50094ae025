package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate 写入触发唯一约束
var ErrDuplicate = errors.New("unique constraint violated")

// pgUniqueViolation PostgreSQL unique_violation 错误码
const pgUniqueViolation = "23505"

// isUniqueViolation 判断是否为唯一约束冲突
// 优先识别 gorm 翻译后的错误与 pgconn 错误码，未开启 TranslateError 时退化为消息匹配
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// translateWriteError 唯一约束冲突转为 ErrDuplicate，其余原样返回
func translateWriteError(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Page 分页参数，Page 从 0 开始
type Page struct {
	Page int
	Size int
}

// Offset 偏移量
func (p Page) Offset() int {
	return p.Page * p.Size
}
