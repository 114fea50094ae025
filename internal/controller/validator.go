package controller

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const passwordPolicyTag = "password_policy"

// 密码至少包含其中一个字符
const passwordSpecials = `!@#$%^&*()_+=-{}[]:;"'<>,.?/`

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则，字段名使用 json/form 标签
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation(passwordPolicyTag, passwordPolicy)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// passwordPolicy 至少一个大写字母和一个特殊字符
func passwordPolicy(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	return strings.IndexFunc(password, unicode.IsUpper) >= 0 &&
		strings.ContainsAny(password, passwordSpecials)
}
