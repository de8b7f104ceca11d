package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

const day = int64(86400)

func trendService() *TrendService {
	cfg := testConfig()
	return &TrendService{Curve: &CurveService{Config: cfg}, Config: cfg}
}

// 第一天全对、第二天全错：第二天的综合分骤降，标记为退步；
// 第一个窗口永远没有趋势标签。
func TestTrend_DeclineLabel(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Absolutely_Correct", 3),
		sub("s1", "q1", 10*day+100, "Absolutely_Correct", 3),
		sub("s1", "q1", 11*day, "Absolutely_Error", 0),
		sub("s1", "q1", 11*day+100, "Absolutely_Error", 0),
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularityDay, model.DimensionKnowledge)
	require.NoError(t, err)

	timeline := result.Trend["Loops"]
	require.Len(t, timeline, 2)

	assert.Empty(t, timeline[0].LearningTrend)
	assert.Equal(t, model.TrendDecline, timeline[1].LearningTrend)
	assert.Greater(t, timeline[0].Score, timeline[1].Score)
}

func TestTrend_ProgressLabel(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Absolutely_Error", 0),
		sub("s1", "q1", 11*day, "Absolutely_Correct", 3),
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularityDay, model.DimensionKnowledge)
	require.NoError(t, err)

	timeline := result.Trend["Loops"]
	require.Len(t, timeline, 2)
	assert.Equal(t, model.TrendProgress, timeline[1].LearningTrend)
}

func TestTrend_SmallDiffHasNoLabel(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Absolutely_Correct", 3),
		sub("s1", "q1", 11*day, "Absolutely_Correct", 3),
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularityDay, model.DimensionKnowledge)
	require.NoError(t, err)

	timeline := result.Trend["Loops"]
	require.Len(t, timeline, 2)
	assert.Empty(t, timeline[1].LearningTrend)
}

func TestTrend_StatusLabels(t *testing.T) {
	// 无耗时/内存数据时综合分 = 0.7*完全正确占比
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Absolutely_Correct", 3), // 0.7 -> 良好
		sub("s1", "q1", 11*day, "Absolutely_Correct", 3), // 3/4 正确, 0.525 -> 一般
		sub("s1", "q1", 11*day+100, "Absolutely_Correct", 3),
		sub("s1", "q1", 11*day+200, "Absolutely_Correct", 3),
		sub("s1", "q1", 11*day+300, "Absolutely_Error", 0),
		sub("s1", "q1", 12*day, "Absolutely_Error", 0), // 0 -> 差
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularityDay, model.DimensionKnowledge)
	require.NoError(t, err)

	timeline := result.Trend["Loops"]
	require.Len(t, timeline, 3)
	assert.Equal(t, model.StatusGood, timeline[0].LearningStatus)
	assert.Equal(t, model.StatusFair, timeline[1].LearningStatus)
	assert.Equal(t, model.StatusPoor, timeline[2].LearningStatus)
}

// 部分正确不计入窗口正确率：只有部分正确的窗口正确率为 0，
// 综合分为 0，状态为差。
func TestTrend_PartiallyCorrectWindowScoresZero(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Partially_Correct", 2.4),
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularityDay, model.DimensionKnowledge)
	require.NoError(t, err)

	timeline := result.Trend["Loops"]
	require.Len(t, timeline, 1)
	assert.InDelta(t, 0.0, timeline[0].CorrectRate, 1e-9)
	assert.InDelta(t, 0.0, timeline[0].Score, 1e-9)
	assert.Equal(t, model.StatusPoor, timeline[0].LearningStatus)
}

// 无提交的日子不出现在时间线上，不产生合成零点。
func TestTrend_EmptyWindowsAbsent(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Absolutely_Correct", 3),
		sub("s1", "q1", 15*day, "Absolutely_Correct", 3),
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularityDay, model.DimensionKnowledge)
	require.NoError(t, err)

	require.Len(t, result.Trend["Loops"], 2)
}

func TestTrend_SubmissionGranularity(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 3000, "Absolutely_Correct", 3),
		sub("s1", "q1", 1000, "Absolutely_Error", 0),
		sub("s1", "q1", 2000, "Partially_Correct", 1.5),
	}

	svc := trendService()
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.GranularitySubmission, model.DimensionKnowledge)
	require.NoError(t, err)

	timeline := result.Trend["Loops"]
	require.Len(t, timeline, 3)
	// 按时间重新编号，每次提交自成窗口
	assert.Equal(t, "1", timeline[0].Time)
	assert.Equal(t, "2", timeline[1].Time)
	assert.Equal(t, "3", timeline[2].Time)
	assert.InDelta(t, 0.0, timeline[0].CorrectRate, 1e-9)
	assert.InDelta(t, 0.0, timeline[1].CorrectRate, 1e-9)
	assert.InDelta(t, 1.0, timeline[2].CorrectRate, 1e-9)
}

// 综合分不截断：上一窗口远低于基线时为负分，回升窗口的差值
// 才能越过进步阈值。
func TestTrend_NegativeScoreEnablesReboundProgress(t *testing.T) {
	subs := []model.SubmissionRecord{
		{StudentID: "s1", TitleID: "q1", Timestamp: 10 * day, State: "Absolutely_Error", Score: f(0), TimeConsume: f(400)},
		{StudentID: "s1", TitleID: "q1", Timestamp: 11 * day, State: "Absolutely_Error", Score: f(0), TimeConsume: f(100)},
	}
	snap := testSnapshot(subs, loopsItems(), nil)

	rows := snap.StudentRows("s1")
	ptrs := make([]*model.Row, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	curve := &model.PracticeCurve{AvgTimeCurve: []*float64{f(100), f(100)}}

	svc := trendService()
	timeline := svc.timeline(ptrs, curve, model.GranularityDay)
	require.Len(t, timeline, 2)

	// 0.15*(1-400/100) = -0.45
	assert.InDelta(t, -0.45, timeline[0].Score, 1e-9)
	assert.InDelta(t, 0.0, timeline[1].Score, 1e-9)
	assert.Equal(t, model.TrendProgress, timeline[1].LearningTrend)
}

func TestTrend_WeekAndMonthLabels(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 10*day, "Absolutely_Correct", 3),
	}
	snap := testSnapshot(subs, loopsItems(), nil)
	svc := trendService()

	weekly, err := svc.Compute(snap, "s1", model.GranularityWeek, model.DimensionKnowledge)
	require.NoError(t, err)
	assert.Equal(t, "1970-W02", weekly.Trend["Loops"][0].Time)

	monthly, err := svc.Compute(snap, "s1", model.GranularityMonth, model.DimensionKnowledge)
	require.NoError(t, err)
	assert.Equal(t, "1970-01", monthly.Trend["Loops"][0].Time)
}

func TestTrend_UnsupportedGranularity(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Correct", 3),
	}

	svc := trendService()
	_, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1", model.Granularity("year"), model.DimensionKnowledge)
	assert.ErrorIs(t, err, util.ErrUnsupportedGranularity)
}

func TestBaselineMean(t *testing.T) {
	curve := []*float64{f(100), f(200), nil, f(400)}

	mean, ok := baselineMean(curve, 0, 2)
	require.True(t, ok)
	assert.InDelta(t, 150.0, mean, 1e-9)

	// 区间截断到曲线末尾，nil 位置剔除
	mean, ok = baselineMean(curve, 2, 10)
	require.True(t, ok)
	assert.InDelta(t, 400.0, mean, 1e-9)

	// 偏移越过曲线末尾：没有基线
	_, ok = baselineMean(curve, 4, 2)
	assert.False(t, ok)

	// 区间内全是 nil：没有基线
	_, ok = baselineMean([]*float64{nil, nil}, 0, 2)
	assert.False(t, ok)
}

func TestBaselineScore(t *testing.T) {
	// 与基线持平为 0
	assert.InDelta(t, 0.0, baselineScore(f(100), 100, true), 1e-9)
	// 快于基线为正
	assert.InDelta(t, 0.5, baselineScore(f(50), 100, true), 1e-9)
	// 慢于基线为负
	assert.InDelta(t, -1.0, baselineScore(f(200), 100, true), 1e-9)
	// 窗口或基线缺数据时中性计 0
	assert.InDelta(t, 0.0, baselineScore(nil, 100, true), 1e-9)
	assert.InDelta(t, 0.0, baselineScore(f(100), 0, false), 1e-9)
}

func TestTrend_ErrorTaxonomy(t *testing.T) {
	svc := trendService()

	_, err := svc.Compute(testSnapshot(nil, loopsItems(), nil), "", model.GranularityDay, model.DimensionKnowledge)
	assert.ErrorIs(t, err, util.ErrNoSubmissionData)

	subs := []model.SubmissionRecord{sub("s1", "q1", 1000, "Absolutely_Correct", 3)}
	_, err = svc.Compute(testSnapshot(subs, loopsItems(), nil), "nobody", model.GranularityDay, model.DimensionKnowledge)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}
