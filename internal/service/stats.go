package service

import "github.com/BestDemain/EduAssistSys/internal/model"

// statAccum 是各级分组共用的累加器。树状折叠时先把行灌进题目级
// 累加器，再逐层 merge 到从属知识点和知识点。
type statAccum struct {
	count      int
	correct    int
	masterySum float64
	earned     float64
	total      float64
	timeSum    float64
	timeCount  int
	memSum     float64
	memCount   int
	items      map[string]bool
	students   map[string]bool
}

func newStatAccum() *statAccum {
	return &statAccum{
		items:    make(map[string]bool),
		students: make(map[string]bool),
	}
}

func (a *statAccum) add(r *model.Row) {
	a.count++
	if r.State.IsCorrect() {
		a.correct++
	}
	a.masterySum += r.Mastery
	if score, ok := r.ScoreValue(); ok {
		a.earned += score
	}
	a.total += r.MaxScore
	if t, ok := r.TimeValue(); ok {
		a.timeSum += t
		a.timeCount++
	}
	if m, ok := r.MemoryValue(); ok {
		a.memSum += m
		a.memCount++
	}
	a.items[r.Record.TitleID] = true
	a.students[r.Record.StudentID] = true
}

func (a *statAccum) merge(b *statAccum) {
	a.count += b.count
	a.correct += b.correct
	a.masterySum += b.masterySum
	a.earned += b.earned
	a.total += b.total
	a.timeSum += b.timeSum
	a.timeCount += b.timeCount
	a.memSum += b.memSum
	a.memCount += b.memCount
	for k := range b.items {
		a.items[k] = true
	}
	for k := range b.students {
		a.students[k] = true
	}
}

// correctRate 是得分占比口径的正确率，总分为 0 时为 0。
func (a *statAccum) correctRate() float64 {
	if a.total <= 0 {
		return 0
	}
	return a.earned / a.total
}

// passRate 是完全正确提交的占比。
func (a *statAccum) passRate() float64 {
	if a.count == 0 {
		return 0
	}
	return float64(a.correct) / float64(a.count)
}

// meanMastery 按配置选择口径：预计算掌握度均值或得分占比。
func (a *statAccum) meanMastery(source string) float64 {
	if source == "score_ratio" || a.count == 0 {
		return a.correctRate()
	}
	return a.masterySum / float64(a.count)
}

// avgTime 是哨兵值剔除后的平均耗时，全部缺失时为 nil。
func (a *statAccum) avgTime() *float64 {
	return meanOf(a.timeSum, a.timeCount)
}

// avgMemory 只统计 memory>0 的行，全部缺失时为 nil。
func (a *statAccum) avgMemory() *float64 {
	return meanOf(a.memSum, a.memCount)
}

func meanOf(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	v := sum / float64(n)
	return &v
}
