package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// DBドライバごとの一意制約違反をまとめて判定する。
// postgres(23505)はgormがErrDuplicatedKeyへ変換する。sqliteは文字列で拾う。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE") || strings.Contains(s, "unique") || strings.Contains(s, "23505")
}
