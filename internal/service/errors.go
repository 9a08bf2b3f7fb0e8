package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrEntityTypeInvalid    = errors.New("实体类型无效")
	ErrEntityNotFound       = errors.New("追踪实体不存在")
	ErrAlertNotFound        = errors.New("告警规则不存在")
	ErrConditionUnsupported = errors.New("不支持的比较条件")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrEntityTypeInvalid:    BadRequest,
	ErrEntityNotFound:       NotFound,
	ErrAlertNotFound:        NotFound,
	ErrConditionUnsupported: BadRequest,
	ErrUserNotFound:         NotFound,
	ErrNotificationNotFound: NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
