package model

// Mastery 按分段计算法把一次提交折算成 [0,1] 的掌握度：
//
//	Absolutely_Correct          -> 1.0
//	Partially_Correct           -> score/maxScore（maxScore<=0 时为 0）
//	Error<N>（非 Absolutely_Error）-> 0.1 + 0.2*score/maxScore
//	Absolutely_Error / 未知状态   -> 0.0
//
// 状态或得分缺失一律返回 0.0。
func Mastery(st State, score float64, hasScore bool, maxScore float64) float64 {
	if st.IsMissing() || !hasScore {
		return 0.0
	}

	ratio := 0.0
	if maxScore > 0 {
		ratio = score / maxScore
	}

	switch st.Kind {
	case StateAbsolutelyCorrect:
		return 1.0
	case StatePartiallyCorrect:
		return clamp01(ratio)
	case StatePartialError:
		return clamp01(0.1 + 0.2*ratio)
	default:
		return 0.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
