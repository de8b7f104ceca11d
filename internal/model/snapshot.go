package model

import (
	"sort"
	"sync"
)

// Dimension 是分组维度：单题、从属知识点或知识点。
type Dimension string

const (
	DimensionItem         Dimension = "item"
	DimensionSubKnowledge Dimension = "sub_knowledge"
	DimensionKnowledge    Dimension = "knowledge"
)

// ParseDimension 解析请求参数，空值默认按知识点分组。
func ParseDimension(s string) (Dimension, bool) {
	switch s {
	case "", string(DimensionKnowledge):
		return DimensionKnowledge, true
	case string(DimensionSubKnowledge):
		return DimensionSubKnowledge, true
	case string(DimensionItem), "title_ID":
		return DimensionItem, true
	}
	return "", false
}

// Granularity 是趋势分析的时间粒度。
type Granularity string

const (
	GranularityDay        Granularity = "day"
	GranularityWeek       Granularity = "week"
	GranularityMonth      Granularity = "month"
	GranularitySubmission Granularity = "submission"
)

func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "", string(GranularityDay):
		return GranularityDay, true
	case string(GranularityWeek):
		return GranularityWeek, true
	case string(GranularityMonth):
		return GranularityMonth, true
	case string(GranularitySubmission):
		return GranularitySubmission, true
	}
	return "", false
}

// Row 是提交记录与题目信息合并后的一行，状态已解析、掌握度已就位。
type Row struct {
	Record       *SubmissionRecord
	State        State
	Knowledge    string
	SubKnowledge string
	MaxScore     float64
	KnownItem    bool
	Mastery      float64
}

// GroupKey 返回该行在给定维度下的分组键。
func (r *Row) GroupKey(d Dimension) string {
	switch d {
	case DimensionItem:
		return r.Record.TitleID
	case DimensionSubKnowledge:
		return r.SubKnowledge
	default:
		return r.Knowledge
	}
}

// ScoreValue 返回得分及其有效性。
func (r *Row) ScoreValue() (float64, bool) {
	if r.Record.Score == nil {
		return 0, false
	}
	return *r.Record.Score, true
}

// TimeValue 返回耗时，哨兵值（缺失）返回 false。
func (r *Row) TimeValue() (float64, bool) {
	if r.Record.TimeConsume == nil {
		return 0, false
	}
	return *r.Record.TimeConsume, true
}

// MemoryValue 返回内存占用，<=0 按缺失处理，绝不折算成 0 参与平均。
func (r *Row) MemoryValue() (float64, bool) {
	if r.Record.Memory == nil || *r.Record.Memory <= 0 {
		return 0, false
	}
	return *r.Record.Memory, true
}

// Snapshot 是一次分析运行的全部输入：不可变的提交行、题目与学生表，
// 外加练习曲线的运行内备忘录。快照由调用方持有并传入各组件，
// 组件之间不共享任何进程级可变状态。
type Snapshot struct {
	Version  string
	Rows     []Row
	Items    map[string]*Item
	Students map[string]*Student

	mu        sync.Mutex
	curveMemo map[Dimension]map[string]*PracticeCurve
}

// NewSnapshot 合并提交与题目：未知题目归入 未知/未知，从不丢行；
// 从属知识点为空归入 未分类。预计算的 Mastery 列优先，缺失时按分段计算法补齐。
func NewSnapshot(version string, subs []SubmissionRecord, items []Item, students []Student) *Snapshot {
	itemIdx := make(map[string]*Item, len(items))
	for i := range items {
		it := &items[i]
		if prev, ok := itemIdx[it.TitleID]; ok {
			// 同一题多行时满分取最大值
			if it.Score > prev.Score {
				itemIdx[it.TitleID] = it
			}
			continue
		}
		itemIdx[it.TitleID] = it
	}

	studentIdx := make(map[string]*Student, len(students))
	for i := range students {
		studentIdx[students[i].StudentID] = &students[i]
	}

	rows := make([]Row, 0, len(subs))
	for i := range subs {
		rec := &subs[i]
		row := Row{
			Record:       rec,
			State:        ParseState(rec.State),
			Knowledge:    UnknownKnowledge,
			SubKnowledge: UnknownKnowledge,
		}
		if it, ok := itemIdx[rec.TitleID]; ok {
			row.KnownItem = true
			row.MaxScore = it.Score
			row.Knowledge = it.Knowledge
			row.SubKnowledge = it.SubKnowledge
			if row.Knowledge == "" {
				row.Knowledge = UnknownKnowledge
			}
			if row.SubKnowledge == "" {
				row.SubKnowledge = UncategorizedKnowledge
			}
		}

		// 预计算列存在时照单全收，合法的 0.0 不会被重算覆盖
		if rec.Mastery != nil {
			row.Mastery = *rec.Mastery
		} else {
			score, hasScore := row.ScoreValue()
			row.Mastery = Mastery(row.State, score, hasScore, row.MaxScore)
		}
		rows = append(rows, row)
	}

	return &Snapshot{
		Version:   version,
		Rows:      rows,
		Items:     itemIdx,
		Students:  studentIdx,
		curveMemo: make(map[Dimension]map[string]*PracticeCurve),
	}
}

// StudentRows 返回某个学生的全部行，保持原始顺序。
func (s *Snapshot) StudentRows(studentID string) []Row {
	out := make([]Row, 0, 64)
	for i := range s.Rows {
		if s.Rows[i].Record.StudentID == studentID {
			out = append(out, s.Rows[i])
		}
	}
	return out
}

// CurveMemo 读取某个维度已缓存的练习曲线。
func (s *Snapshot) CurveMemo(d Dimension) (map[string]*PracticeCurve, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	curves, ok := s.curveMemo[d]
	return curves, ok
}

// StoreCurveMemo 缓存某个维度的练习曲线，生命周期与快照一致。
func (s *Snapshot) StoreCurveMemo(d Dimension, curves map[string]*PracticeCurve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curveMemo[d] = curves
}

// KnowledgeStructure 返回知识点到从属知识点的层级结构。
func (s *Snapshot) KnowledgeStructure() map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, it := range s.Items {
		k := it.Knowledge
		if k == "" {
			k = UnknownKnowledge
		}
		sub := it.SubKnowledge
		if sub == "" {
			sub = UncategorizedKnowledge
		}
		if seen[k] == nil {
			seen[k] = make(map[string]bool)
		}
		seen[k][sub] = true
	}

	structure := make(map[string][]string, len(seen))
	for k, subs := range seen {
		list := make([]string, 0, len(subs))
		for sub := range subs {
			list = append(list, sub)
		}
		sort.Strings(list)
		structure[k] = list
	}
	return structure
}
