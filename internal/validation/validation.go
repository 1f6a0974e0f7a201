// Package validation 在请求进入 service 之前校验并规范化输入，
// 所有失败字段被收集到一个 apperr 校验错误中。
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"chatmsg-go/internal/apperr"
	"chatmsg-go/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误中的字段名使用 JSON 字段名
	v.RegisterTagNameFunc(jsonName)
	return v
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// ValidateCreate 校验创建请求。
func ValidateCreate(req model.CreateChatMessage) error {
	return check(req)
}

// ValidateUpdate 校验部分更新请求，至少需要一个可识别字段。
func ValidateUpdate(req model.UpdateChatMessage) error {
	if req.IsEmpty() {
		msg := "at least one field must be provided for update"
		return apperr.Validation(msg, map[string]string{"body": msg})
	}
	return check(req)
}

// filterQuery 是列表查询参数解析后的中间形态。
type filterQuery struct {
	SessionID   string `json:"sessionId" validate:"omitempty,max=100"`
	UserID      string `json:"userId" validate:"omitempty,max=100"`
	MessageType string `json:"messageType" validate:"omitempty,oneof=user assistant system"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Limit       *int   `json:"limit" validate:"omitnil,min=0,max=100"`
	Offset      *int   `json:"offset" validate:"omitnil,min=0"`
}

// ParseFilter 解析并校验列表查询参数。越界或非整数的 limit/offset 直接拒绝，不做截断。
// 未提供时 limit 取 model.DefaultLimit，offset 取 0。
func ParseFilter(values url.Values) (model.ChatMessageFilter, error) {
	q := filterQuery{
		SessionID:   values.Get("sessionId"),
		UserID:      values.Get("userId"),
		MessageType: values.Get("messageType"),
		Priority:    values.Get("priority"),
	}

	fields := make(map[string]string)
	var err error
	if q.Limit, err = parseInt(values, "limit"); err != nil {
		fields["limit"] = err.Error()
	}
	if q.Offset, err = parseInt(values, "offset"); err != nil {
		fields["offset"] = err.Error()
	}
	if verr := validate.Struct(q); verr != nil {
		if err := collect(verr, fields); err != nil {
			return model.ChatMessageFilter{}, err
		}
	}
	if len(fields) > 0 {
		return model.ChatMessageFilter{}, build(q, fields)
	}

	limit, offset := model.DefaultLimit, 0
	if q.Limit != nil {
		limit = *q.Limit
	}
	if q.Offset != nil {
		offset = *q.Offset
	}
	return model.ChatMessageFilter{
		SessionID:   q.SessionID,
		UserID:      q.UserID,
		MessageType: model.MessageType(q.MessageType),
		Priority:    model.Priority(q.Priority),
		Limit:       &limit,
		Offset:      &offset,
	}, nil
}

func parseInt(values url.Values, key string) (*int, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	if err := collect(err, fields); err != nil {
		return err
	}
	return build(v, fields)
}

// collect 把 validator 的字段错误写入 fields，同一字段只保留第一条。
func collect(err error, fields map[string]string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; !exists {
			fields[fe.Field()] = message(fe)
		}
	}
	return nil
}

// build 按结构体字段的声明顺序选出第一条错误作为主提示。
func build(v any, fields map[string]string) error {
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		if msg, ok := fields[jsonName(t.Field(i))]; ok {
			return apperr.Validation(msg, fields)
		}
	}
	return apperr.Validation("invalid request", fields)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			if fe.Param() == "1" {
				return fmt.Sprintf("%s must not be empty", field)
			}
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
