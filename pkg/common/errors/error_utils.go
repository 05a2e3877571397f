package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// region 错误处理工具函数

// WrapGormError 将底层数据库错误转变为业务可识别错误
// 参数说明：
//   - rawErr: 原始GORM错误
//   - notFound: 记录不存在时返回的业务错误
func WrapGormError(rawErr error, notFound error) error {
	if rawErr == nil {
		return nil
	}

	switch {
	case errors.Is(rawErr, gorm.ErrRecordNotFound):
		return notFound
	case IsDuplicateError(rawErr):
		return ErrDuplicateEntry
	case errors.Is(rawErr, context.DeadlineExceeded), errors.Is(rawErr, context.Canceled):
		return Unavailable("Request timed out.", rawErr)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1045, 1049, 1146: // 数据库连接、表不存在等错误
			return Internal(fmt.Errorf("%w: %s", ErrDatabaseInternal, mysqlErr.Message))
		}
	}

	// 兜底处理：附加原始错误信息
	return Internal(fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr))
}

// IsDuplicateError 判断是否为重复记录错误
func IsDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// endregion
