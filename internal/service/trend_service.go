package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/util"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
)

// TrendService 把提交按时间窗口切片，逐窗口计算综合表现分并打上
// 水平与趋势标签。时间分与内存分以练习曲线为基线：用累计练习次数
// 做偏移，把日历窗口映射回第 x 次练习的期望水平。
type TrendService struct {
	Data   *DataService
	Curve  *CurveService
	Config *config.Config
}

func NewTrendService(data *DataService, curve *CurveService, cfg *config.Config) *TrendService {
	return &TrendService{Data: data, Curve: curve, Config: cfg}
}

// AnalyzeMasteryTrend 计算掌握度时间趋势；studentID 为空时分析全体。
func (s *TrendService) AnalyzeMasteryTrend(ctx context.Context, studentID string, gran model.Granularity, dim model.Dimension) (*model.TrendResult, error) {
	start := time.Now()

	if !validGranularity(gran) {
		return nil, util.ErrUnsupportedGranularity
	}

	snap, err := s.Data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := s.Data.CacheKey(snap.Version, "analysis", "trend", studentID, string(gran), string(dim))
	var cached model.TrendResult
	if s.Data.CacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.Compute(snap, studentID, gran, dim)
	monitoring.ObserveAnalysis("mastery_trend", start, err)
	if err != nil {
		return nil, err
	}

	s.Data.CachePut(ctx, key, result)
	return result, nil
}

func validGranularity(g model.Granularity) bool {
	switch g {
	case model.GranularityDay, model.GranularityWeek, model.GranularityMonth, model.GranularitySubmission:
		return true
	}
	return false
}

// Compute 是纯函数形式的趋势分析入口。
func (s *TrendService) Compute(snap *model.Snapshot, studentID string, gran model.Granularity, dim model.Dimension) (*model.TrendResult, error) {
	if !validGranularity(gran) {
		return nil, util.ErrUnsupportedGranularity
	}
	if len(snap.Rows) == 0 {
		return nil, util.ErrNoSubmissionData
	}
	if len(snap.Items) == 0 {
		return nil, util.ErrNoQuestionData
	}

	rows := snap.Rows
	if studentID != "" {
		rows = snap.StudentRows(studentID)
		if len(rows) == 0 {
			return nil, util.ErrStudentNotFound
		}
	}

	// 基线曲线与行的来源一致：分析单个学生时用个人序列做基线，
	// 分析全体时用记忆化的全体基线。
	var curves map[string]*model.PracticeCurve
	if studentID == "" {
		var err error
		curves, err = s.Curve.Curves(snap, dim)
		if err != nil {
			return nil, err
		}
	} else {
		curves = s.Curve.sampleCurves(rows, dim)
	}

	grouped := make(map[string][]*model.Row)
	for i := range rows {
		r := &rows[i]
		grouped[r.GroupKey(dim)] = append(grouped[r.GroupKey(dim)], r)
	}

	trend := make(map[string][]model.TrendPoint, len(grouped))
	for key, keyRows := range grouped {
		trend[key] = s.timeline(keyRows, curves[key], gran)
	}

	return &model.TrendResult{
		StudentID:   studentID,
		Granularity: gran,
		GroupBy:     dim,
		Trend:       trend,
	}, nil
}

// window 是一个分组键内的单个时间窗口。
type window struct {
	label string
	first int64
	rows  []*model.Row
}

// timeline 按时间升序处理一个分组键的全部窗口。趋势标签从第二个
// 窗口开始出现，与上一窗口的综合分比较；无提交的窗口不产生合成零点。
func (s *TrendService) timeline(rows []*model.Row, curve *model.PracticeCurve, gran model.Granularity) []model.TrendPoint {
	windows := s.bucket(rows, gran)

	thr := s.Config.Analysis.Trend

	points := make([]model.TrendPoint, 0, len(windows))
	offset := 0
	prevScore := 0.0

	for i, w := range windows {
		acc := newStatAccum()
		for _, r := range w.rows {
			acc.add(r)
		}

		cr := acc.passRate()
		timeBase, timeOK := baselineMean(curveTimes(curve), offset, len(w.rows))
		memBase, memOK := baselineMean(curveMemories(curve), offset, len(w.rows))
		timeScore := baselineScore(acc.avgTime(), timeBase, timeOK)
		memScore := baselineScore(acc.avgMemory(), memBase, memOK)

		// 综合分不截断，窗口远低于基线时可以为负。
		score := 0.7*cr + 0.15*timeScore + 0.15*memScore

		point := model.TrendPoint{
			Time:           w.label,
			Score:          score,
			LearningStatus: statusLabel(score, thr),
			CorrectRate:    cr,
			AvgTimeConsume: acc.avgTime(),
			AvgMemory:      acc.avgMemory(),
			Submissions:    len(w.rows),
		}
		if i > 0 {
			diff := score - prevScore
			if diff > thr.Progress {
				point.LearningTrend = model.TrendProgress
			} else if diff < -thr.Decline {
				point.LearningTrend = model.TrendDecline
			}
		}

		points = append(points, point)
		prevScore = score
		offset += len(w.rows)
	}

	return points
}

// bucket 把行切成按时间升序的窗口。day/week/month 按配置时区做
// 日历分桶；submission 粒度把该键下的提交按时间重新编号，每次
// 提交自成一个窗口。
func (s *TrendService) bucket(rows []*model.Row, gran model.Granularity) []window {
	sorted := make([]*model.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Record.Timestamp < sorted[j].Record.Timestamp
	})

	if gran == model.GranularitySubmission {
		windows := make([]window, 0, len(sorted))
		for i, r := range sorted {
			windows = append(windows, window{
				label: strconv.Itoa(i + 1),
				first: r.Record.Timestamp,
				rows:  []*model.Row{r},
			})
		}
		return windows
	}

	tz := s.Config.Analysis.Timezone()
	byLabel := make(map[string]*window)
	order := make([]string, 0)

	for _, r := range sorted {
		t := time.Unix(r.Record.Timestamp, 0).In(tz)
		var label string
		switch gran {
		case model.GranularityWeek:
			year, week := t.ISOWeek()
			label = fmt.Sprintf("%d-W%02d", year, week)
		case model.GranularityMonth:
			label = t.Format("2006-01")
		default:
			label = t.Format("2006-01-02")
		}

		w, ok := byLabel[label]
		if !ok {
			w = &window{label: label, first: r.Record.Timestamp}
			byLabel[label] = w
			order = append(order, label)
		}
		w.rows = append(w.rows, r)
	}

	windows := make([]window, 0, len(order))
	for _, label := range order {
		windows = append(windows, *byLabel[label])
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].first < windows[j].first
	})
	return windows
}

// baselineMean 取基线曲线上 [offset, offset+n) 区间的均值，
// 区间截断到曲线末尾；区间为空或全缺失时返回 false。
func baselineMean(curve []*float64, offset, n int) (float64, bool) {
	if offset < 0 {
		offset = 0
	}
	end := offset + n
	if end > len(curve) {
		end = len(curve)
	}
	if offset >= end {
		return 0, false
	}

	var sum float64
	var count int
	for _, v := range curve[offset:end] {
		if v == nil {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// baselineScore 是窗口均值相对基线的相对得分：与基线持平为 0，
// 快于基线为正。窗口或基线缺数据时中性计 0。
func baselineScore(actual *float64, baseline float64, ok bool) float64 {
	if actual == nil || !ok || baseline <= 0 {
		return 0
	}
	return 1 - *actual/baseline
}

func curveTimes(curve *model.PracticeCurve) []*float64 {
	if curve == nil {
		return nil
	}
	return curve.AvgTimeCurve
}

func curveMemories(curve *model.PracticeCurve) []*float64 {
	if curve == nil {
		return nil
	}
	return curve.AvgMemoryCurve
}

func statusLabel(score float64, thr config.TrendThresholds) string {
	switch {
	case score >= thr.Excellent:
		return model.StatusExcellent
	case score >= thr.Good:
		return model.StatusGood
	case score >= thr.Fair:
		return model.StatusFair
	default:
		return model.StatusPoor
	}
}
