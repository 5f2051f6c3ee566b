package errors

import "errors"

// ErrStatusConflict 条件更新未命中：记录状态已被其他请求修改
// Repository 的 UPDATE ... WHERE status = 期望状态 影响 0 行时返回
var ErrStatusConflict = errors.New("状态已被其他操作修改，请刷新后重试")
