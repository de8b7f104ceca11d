package model

import (
	"strconv"
	"strings"
)

// StateKind 是提交状态的封闭枚举。原始日志里的 state 是自由文本，
// 在入库时解析一次，之后所有聚合只看枚举值。
type StateKind int

const (
	StateUnknown StateKind = iota
	StateAbsolutelyCorrect
	StatePartiallyCorrect
	// Error1..Error9 之类带部分得分的错误状态
	StatePartialError
	StateAbsolutelyError
)

const (
	rawAbsolutelyCorrect = "Absolutely_Correct"
	rawPartiallyCorrect  = "Partially_Correct"
	rawAbsolutelyError   = "Absolutely_Error"
)

// State 保留原始标签用于状态分布统计，Kind 用于计算。
type State struct {
	Kind       StateKind
	ErrorGrade int // Error<N> 的 N，仅 StatePartialError 有效
	Raw        string
}

func ParseState(raw string) State {
	s := strings.TrimSpace(raw)
	st := State{Raw: s}

	switch {
	case s == rawAbsolutelyCorrect:
		st.Kind = StateAbsolutelyCorrect
	case s == rawPartiallyCorrect:
		st.Kind = StatePartiallyCorrect
	case s == rawAbsolutelyError:
		st.Kind = StateAbsolutelyError
	case strings.HasPrefix(s, "Error"):
		st.Kind = StatePartialError
		if n, err := strconv.Atoi(s[len("Error"):]); err == nil {
			st.ErrorGrade = n
		}
	default:
		st.Kind = StateUnknown
	}
	return st
}

// IsCorrect 表示完全正确的提交，正确提交率只统计它。
func (s State) IsCorrect() bool {
	return s.Kind == StateAbsolutelyCorrect
}

// IsMissing 表示状态缺失（空标签），掌握度按 0 处理。
func (s State) IsMissing() bool {
	return s.Raw == ""
}
