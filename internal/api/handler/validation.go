package handler

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

// FieldError 字段级校验失败详情
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// RegisterValidatorTagNames 让校验错误中的字段名使用 json / form / uri 标签
// 在创建路由前调用一次
func RegisterValidatorTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// bindURI 校验路径参数，失败时已写入 400 响应
func bindURI(c *gin.Context, obj any) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// respondBindError 请求体 / 查询参数校验失败，统一返回 400 INVALID_INPUT
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		response.ErrorWithDetails(c, 400, "INVALID_INPUT", "参数校验失败", gin.H{"fields": details})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		response.BadRequest(c, "INVALID_INPUT", "请求体不是合法的 JSON")
	case errors.As(err, &typeErr):
		response.ErrorWithDetails(c, 400, "INVALID_INPUT", "字段类型错误",
			gin.H{"fields": []FieldError{{Field: typeErr.Field, Rule: "type", Param: typeErr.Type.String()}}})
	default:
		response.BadRequest(c, "INVALID_INPUT", "参数校验失败")
	}
}
