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

// BehaviorService 按时间与状态维度刻画学习行为。
// 时间特征的提取对时区敏感：时间戳是 UTC 秒，先换算到配置的
// 本地时区（默认东八区）再取小时和星期。
type BehaviorService struct {
	Data   *DataService
	Config *config.Config
}

func NewBehaviorService(data *DataService, cfg *config.Config) *BehaviorService {
	return &BehaviorService{Data: data, Config: cfg}
}

// AnalyzeLearningBehavior 分析学习行为模式；studentID 为空时分析全体。
func (s *BehaviorService) AnalyzeLearningBehavior(ctx context.Context, studentID string) (*model.BehaviorResult, error) {
	start := time.Now()

	snap, err := s.Data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := s.Data.CacheKey(snap.Version, "analysis", "behavior", studentID)
	var cached model.BehaviorResult
	if s.Data.CacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.Compute(snap, studentID)
	monitoring.ObserveAnalysis("learning_behavior", start, err)
	if err != nil {
		return nil, err
	}

	s.Data.CachePut(ctx, key, result)
	return result, nil
}

// Compute 是纯函数形式的行为画像入口。
func (s *BehaviorService) Compute(snap *model.Snapshot, studentID string) (*model.BehaviorResult, error) {
	if len(snap.Rows) == 0 {
		return nil, util.ErrNoSubmissionData
	}

	rows := snap.Rows
	if studentID != "" {
		rows = snap.StudentRows(studentID)
		if len(rows) == 0 {
			return nil, util.ErrStudentNotFound
		}
	}

	tz := s.Config.Analysis.Timezone()

	var hourly [24]int
	var weekday [7]int
	states := make(map[string]int)
	methods := make(map[string]int)
	acc := newStatAccum()

	for i := range rows {
		r := &rows[i]
		t := time.Unix(r.Record.Timestamp, 0).In(tz)
		hourly[t.Hour()]++
		// 与原始数据口径一致：0 = 周一
		weekday[(int(t.Weekday())+6)%7]++

		label := r.State.Raw
		if label == "" {
			label = "Unknown"
		}
		states[label]++
		if r.Record.Method != "" {
			methods[r.Record.Method]++
		}
		acc.add(r)
	}

	profile := &model.BehaviorProfile{
		HourlyActivity:     make([]model.HourCount, 24),
		WeekdayActivity:    make([]model.WeekdayCount, 7),
		StateDistribution:  states,
		MethodDistribution: methods,
		CorrectRate:        acc.passRate(),
		MeanMastery:        acc.meanMastery(s.Config.Analysis.MasterySource),
		AvgTimeConsume:     acc.avgTime(),
		AvgMemory:          acc.avgMemory(),
		TotalSubmissions:   acc.count,
	}
	for h := 0; h < 24; h++ {
		profile.HourlyActivity[h] = model.HourCount{Hour: h, Count: hourly[h]}
	}
	for d := 0; d < 7; d++ {
		profile.WeekdayActivity[d] = model.WeekdayCount{Weekday: d, Count: weekday[d]}
	}
	profile.PeakHours = peakHours(hourly, 3)

	if studentID != "" {
		profile.RelativePerformance = s.relativePerformance(snap, acc)
		profile.StudentInfo = snap.Students[studentID]
	}

	return &model.BehaviorResult{
		StudentID:       studentID,
		BehaviorProfile: profile,
	}, nil
}

// relativePerformance 计算学生相对全体的带符号差值（不是比值）。
func (s *BehaviorService) relativePerformance(snap *model.Snapshot, student *statAccum) *model.RelativePerformance {
	population := newStatAccum()
	for i := range snap.Rows {
		population.add(&snap.Rows[i])
	}

	source := s.Config.Analysis.MasterySource
	rel := &model.RelativePerformance{
		CorrectRateVsAvg: student.passRate() - population.passRate(),
		MasteryVsAvg:     student.meanMastery(source) - population.meanMastery(source),
	}
	if st, pop := student.avgTime(), population.avgTime(); st != nil && pop != nil {
		diff := *st - *pop
		rel.TimeConsumeVsAvg = &diff
	}
	return rel
}

// peakHours 返回提交量最高的至多 n 个时段，并列时按小时升序。
func peakHours(hourly [24]int, n int) []model.HourCount {
	present := make([]model.HourCount, 0, 24)
	for h, count := range hourly {
		if count > 0 {
			present = append(present, model.HourCount{Hour: h, Count: count})
		}
	}
	sort.Slice(present, func(i, j int) bool {
		if present[i].Count != present[j].Count {
			return present[i].Count > present[j].Count
		}
		return present[i].Hour < present[j].Hour
	})
	if len(present) > n {
		present = present[:n]
	}
	return present
}
