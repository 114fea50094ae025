package middleware

import (
	"reflect"

	"gorm.io/gorm"
)

// ==================== GORM 审计回调 ====================

// RegisterAuditCallbacks 注册 GORM 审计回调
// 请求 context 中存在身份时，Create 填充 CreatedBy/UpdatedBy，Update 覆盖 UpdatedBy
func RegisterAuditCallbacks(db *gorm.DB) error {
	err := db.Callback().Create().Before("gorm:create").Register("audit:create", func(tx *gorm.DB) {
		userID := auditUserID(tx)
		if userID == 0 {
			return
		}
		setAuditField(tx, "CreatedBy", userID, true)
		setAuditField(tx, "UpdatedBy", userID, true)
	})
	if err != nil {
		return err
	}

	return db.Callback().Update().Before("gorm:update").Register("audit:update", func(tx *gorm.DB) {
		userID := auditUserID(tx)
		if userID == 0 {
			return
		}
		setAuditField(tx, "UpdatedBy", userID, false)
	})
}

// auditUserID 当前操作人 ID，匿名或后台任务返回 0
func auditUserID(tx *gorm.DB) int64 {
	if tx.Statement.Context == nil {
		return 0
	}
	identity, ok := IdentityFrom(tx.Statement.Context)
	if !ok {
		return 0
	}
	return identity.UserID
}

// setAuditField 设置审计字段
// onlyZero 为 true 时不覆盖已有值
func setAuditField(tx *gorm.DB, fieldName string, value int64, onlyZero bool) {
	if tx.Statement.Schema == nil {
		return
	}

	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}

	ctx := tx.Statement.Context
	switch tx.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		if _, isZero := field.ValueOf(ctx, tx.Statement.ReflectValue); isZero || !onlyZero {
			_ = field.Set(ctx, tx.Statement.ReflectValue, value)
		}
	case reflect.Slice, reflect.Array:
		// 批量写入
		for i := 0; i < tx.Statement.ReflectValue.Len(); i++ {
			rv := reflect.Indirect(tx.Statement.ReflectValue.Index(i))
			if _, isZero := field.ValueOf(ctx, rv); isZero || !onlyZero {
				_ = field.Set(ctx, rv, value)
			}
		}
	}
}
