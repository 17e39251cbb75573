package errorx

import "errors"

// 业务错误定义
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderNotPaid   = errors.New("order is not paid, resync is only available for paid orders")
	ErrDuplicateOrder = errors.New("duplicate order")
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// BusinessError 业务错误结构
type BusinessError struct {
	Code    int
	Message string
}

// Error 实现 error 接口
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError 创建业务错误
func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}
