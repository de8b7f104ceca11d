package service

import (
	"context"
	"sort"
	"time"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/util"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
)

// CurveService 构建第 x 次练习基线：对每个分组键，把每个学生的提交
// 按时间升序编成个人练习序列，再对齐序号求全体平均。
// 曲线与日历时间无关，只回答“第 k 次练习通常什么水平”，
// 是趋势分析衡量超额/欠额表现的参照。
type CurveService struct {
	Data   *DataService
	Config *config.Config
}

func NewCurveService(data *DataService, cfg *config.Config) *CurveService {
	return &CurveService{Data: data, Config: cfg}
}

// AnalyzeAvgPracticeCurve 计算练习曲线；studentID 为空时基于全体。
func (s *CurveService) AnalyzeAvgPracticeCurve(ctx context.Context, studentID string, dim model.Dimension) (*model.CurveResult, error) {
	start := time.Now()

	snap, err := s.Data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.compute(snap, studentID, dim)
	monitoring.ObserveAnalysis("practice_curve", start, err)
	return result, err
}

func (s *CurveService) compute(snap *model.Snapshot, studentID string, dim model.Dimension) (*model.CurveResult, error) {
	if len(snap.Rows) == 0 {
		return nil, util.ErrNoSubmissionData
	}
	if len(snap.Items) == 0 {
		return nil, util.ErrNoQuestionData
	}

	var curves map[string]*model.PracticeCurve
	if studentID == "" {
		var err error
		curves, err = s.Curves(snap, dim)
		if err != nil {
			return nil, err
		}
	} else {
		rows := snap.StudentRows(studentID)
		if len(rows) == 0 {
			return nil, util.ErrStudentNotFound
		}
		curves = s.sampleCurves(rows, dim)
	}

	return &model.CurveResult{
		StudentID: studentID,
		GroupBy:   dim,
		Curves:    curves,
	}, nil
}

// Curves 返回全体学生的基线曲线，按 (维度, 分组键) 在快照内记忆化：
// 趋势分析和难度分析都会用到，同一次运行只算一遍。
func (s *CurveService) Curves(snap *model.Snapshot, dim model.Dimension) (map[string]*model.PracticeCurve, error) {
	if memo, ok := snap.CurveMemo(dim); ok {
		return memo, nil
	}

	curves := s.sampleCurves(snap.Rows, dim)
	snap.StoreCurveMemo(dim, curves)
	return curves, nil
}

// sampleCurves 对一组行构建每个分组键的三条对齐曲线。
// 曲线长度等于组内最长的个人序列；某个学生没有第 i 次练习时，
// 该位置的平均不包含他。
func (s *CurveService) sampleCurves(rows []model.Row, dim model.Dimension) map[string]*model.PracticeCurve {
	type sequence struct {
		masteries []float64
		times     []*float64
		memories  []*float64
	}

	// 分组键 → 学生 → 行
	grouped := make(map[string]map[string][]*model.Row)
	for i := range rows {
		r := &rows[i]
		key := r.GroupKey(dim)
		students, ok := grouped[key]
		if !ok {
			students = make(map[string][]*model.Row)
			grouped[key] = students
		}
		students[r.Record.StudentID] = append(students[r.Record.StudentID], r)
	}

	curveMax := s.Config.Analysis.CurveMaxScore
	out := make(map[string]*model.PracticeCurve, len(grouped))

	for key, students := range grouped {
		sequences := make([]sequence, 0, len(students))
		maxLen := 0

		for _, studentRows := range students {
			sort.SliceStable(studentRows, func(i, j int) bool {
				return studentRows[i].Record.Timestamp < studentRows[j].Record.Timestamp
			})

			seq := sequence{}
			for _, r := range studentRows {
				seq.masteries = append(seq.masteries, curveScore(r, curveMax))

				if t, ok := r.TimeValue(); ok {
					v := t
					seq.times = append(seq.times, &v)
				} else {
					seq.times = append(seq.times, nil)
				}
				if m, ok := r.MemoryValue(); ok {
					v := m
					seq.memories = append(seq.memories, &v)
				} else {
					seq.memories = append(seq.memories, nil)
				}
			}
			if len(seq.masteries) > maxLen {
				maxLen = len(seq.masteries)
			}
			sequences = append(sequences, seq)
		}

		curve := &model.PracticeCurve{
			AvgMasteryCurve: make([]float64, maxLen),
			AvgTimeCurve:    make([]*float64, maxLen),
			AvgMemoryCurve:  make([]*float64, maxLen),
		}

		for i := 0; i < maxLen; i++ {
			var masterySum float64
			var masteryN int
			var timeSum float64
			var timeN int
			var memSum float64
			var memN int

			for _, seq := range sequences {
				if i >= len(seq.masteries) {
					continue
				}
				masterySum += seq.masteries[i]
				masteryN++
				if seq.times[i] != nil {
					timeSum += *seq.times[i]
					timeN++
				}
				if seq.memories[i] != nil {
					memSum += *seq.memories[i]
					memN++
				}
			}

			if masteryN > 0 {
				curve.AvgMasteryCurve[i] = masterySum / float64(masteryN)
			}
			curve.AvgTimeCurve[i] = meanOf(timeSum, timeN)
			curve.AvgMemoryCurve[i] = meanOf(memSum, memN)
		}

		out[key] = curve
	}

	return out
}

// curveScore 是曲线口径的正确率得分：完全正确计 1，
// 部分正确按固定满分约定折算，其余计 0。
func curveScore(r *model.Row, curveMax float64) float64 {
	switch r.State.Kind {
	case model.StateAbsolutelyCorrect:
		return 1.0
	case model.StatePartiallyCorrect:
		score, ok := r.ScoreValue()
		if !ok || curveMax <= 0 {
			return 0.0
		}
		v := score / curveMax
		if v > 1 {
			return 1.0
		}
		if v < 0 {
			return 0.0
		}
		return v
	default:
		return 0.0
	}
}
