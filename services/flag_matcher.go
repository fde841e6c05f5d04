package services

import (
	"errors"
	"strings"
)

// FlagPrefix 所有 Flag 的固定前缀
const FlagPrefix = "SKICTF{"

var (
	// ErrInvalidFlagFormat 提交内容不符合 SKICTF{...} 格式
	ErrInvalidFlagFormat = errors.New("invalid flag format")
	// ErrIncorrectFlag 格式正确但内容错误
	ErrIncorrectFlag = errors.New("incorrect flag")
)

// MatchFlag 校验提交的 Flag 是否与题目存储的标准 Flag 一致。
// 前缀匹配不区分大小写，花括号内的内容严格区分大小写，
// 两条规则的不对称性是有意保留的历史行为，不要"修复"。
// 纯函数，无任何副作用。
func MatchFlag(submitted, canonical string) error {
	if len(submitted) < len(FlagPrefix) ||
		!strings.EqualFold(submitted[:len(FlagPrefix)], FlagPrefix) {
		return ErrInvalidFlagFormat
	}
	// 标准 Flag 入库时要求带前缀，这里再兜底一次防止切片越界
	if len(canonical) < len(FlagPrefix) {
		return ErrIncorrectFlag
	}
	if submitted[len(FlagPrefix):] != canonical[len(FlagPrefix):] {
		return ErrIncorrectFlag
	}
	return nil
}
