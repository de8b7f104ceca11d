package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

func loopsItems() []model.Item {
	return []model.Item{
		{TitleID: "q1", Score: 3, Knowledge: "Loops", SubKnowledge: "for"},
	}
}

// 同一个学生对同一道题的三次提交：完全错误、部分正确（1/3）、完全正确，
// 掌握度序列 [0, 0.333, 1.0]，知识点均值 0.444。
func TestAnalysis_MasterySequence(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Error", 0),
		sub("s1", "q1", 2000, "Partially_Correct", 1),
		sub("s1", "q1", 3000, "Absolutely_Correct", 3),
	}
	snap := testSnapshot(subs, loopsItems(), nil)

	require.Len(t, snap.Rows, 3)
	assert.InDelta(t, 0.0, snap.Rows[0].Mastery, 1e-9)
	assert.InDelta(t, 1.0/3.0, snap.Rows[1].Mastery, 1e-3)
	assert.InDelta(t, 1.0, snap.Rows[2].Mastery, 1e-9)

	svc := &AnalysisService{Config: testConfig()}
	result, err := svc.Compute(snap, "s1")
	require.NoError(t, err)

	loops := result.KnowledgeMastery["Loops"]
	require.NotNil(t, loops)
	assert.InDelta(t, 0.444, loops.MeanMastery, 1e-3)
	assert.Equal(t, 3, loops.TotalSubmissions)
	assert.Equal(t, 1, loops.CorrectSubmission)
}

func TestAnalysis_SubKnowledgeWeightsSumToOne(t *testing.T) {
	items := []model.Item{
		{TitleID: "q1", Score: 3, Knowledge: "Loops", SubKnowledge: "for"},
		{TitleID: "q2", Score: 3, Knowledge: "Loops", SubKnowledge: "for"},
		{TitleID: "q3", Score: 3, Knowledge: "Loops", SubKnowledge: "while"},
	}
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Correct", 3),
		sub("s1", "q2", 2000, "Absolutely_Error", 0),
		sub("s2", "q3", 3000, "Partially_Correct", 1.5),
	}

	svc := &AnalysisService{Config: testConfig()}
	result, err := svc.Compute(testSnapshot(subs, items, nil), "")
	require.NoError(t, err)

	loops := result.KnowledgeMastery["Loops"]
	require.Len(t, loops.SubKnowledge, 2)

	var weightSum float64
	for _, sk := range loops.SubKnowledge {
		weightSum += sk.Weight
	}
	assert.InDelta(t, 1.0, weightSum, 1e-9)
	assert.InDelta(t, 2.0/3.0, loops.SubKnowledge["for"].Weight, 1e-9)
	assert.InDelta(t, 1.0/3.0, loops.SubKnowledge["while"].Weight, 1e-9)
}

func TestAnalysis_Idempotent(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Correct", 3),
		sub("s2", "q1", 2000, "Error2", 1),
	}
	snap := testSnapshot(subs, loopsItems(), nil)
	svc := &AnalysisService{Config: testConfig()}

	first, err := svc.Compute(snap, "")
	require.NoError(t, err)
	second, err := svc.Compute(snap, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalysis_WeakPoints(t *testing.T) {
	items := []model.Item{
		{TitleID: "q1", Score: 3, Knowledge: "Loops", SubKnowledge: "for"},
		{TitleID: "q2", Score: 3, Knowledge: "Arrays", SubKnowledge: "index"},
	}
	subs := []model.SubmissionRecord{
		// Loops：得分占比 3/3 = 1.0，不薄弱
		sub("s1", "q1", 1000, "Absolutely_Correct", 3),
		// Arrays：得分占比 1/6 ≈ 0.17，知识点和从属知识点都薄弱
		sub("s1", "q2", 2000, "Error1", 1),
		sub("s2", "q2", 3000, "Absolutely_Error", 0),
	}

	svc := &AnalysisService{Config: testConfig()}
	result, err := svc.Compute(testSnapshot(subs, items, nil), "")
	require.NoError(t, err)

	require.Len(t, result.WeakPoints, 2)
	assert.Equal(t, "Arrays", result.WeakPoints[0].Knowledge)
	assert.Empty(t, result.WeakPoints[0].SubKnowledge)
	assert.Equal(t, "index", result.WeakPoints[1].SubKnowledge)
}

func TestAnalysis_UnknownItemNeverDropped(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Correct", 3),
		sub("s1", "q_missing", 2000, "Absolutely_Error", 0),
	}

	svc := &AnalysisService{Config: testConfig()}
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "")
	require.NoError(t, err)

	unknown := result.KnowledgeMastery[model.UnknownKnowledge]
	require.NotNil(t, unknown)
	assert.Equal(t, 1, unknown.TotalSubmissions)
}

func TestAnalysis_ErrorTaxonomy(t *testing.T) {
	svc := &AnalysisService{Config: testConfig()}

	_, err := svc.Compute(testSnapshot(nil, loopsItems(), nil), "")
	assert.ErrorIs(t, err, util.ErrNoSubmissionData)

	subs := []model.SubmissionRecord{sub("s1", "q1", 1000, "Absolutely_Correct", 3)}
	_, err = svc.Compute(testSnapshot(subs, nil, nil), "")
	assert.ErrorIs(t, err, util.ErrNoQuestionData)

	_, err = svc.Compute(testSnapshot(subs, loopsItems(), nil), "nobody")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestAnalysis_ScoreRatioFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.MasterySource = "score_ratio"

	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Error", 0),
		sub("s1", "q1", 2000, "Partially_Correct", 1),
		sub("s1", "q1", 3000, "Absolutely_Correct", 3),
	}

	svc := &AnalysisService{Config: cfg}
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "s1")
	require.NoError(t, err)

	// 得分占比口径：(0+1+3)/9
	assert.InDelta(t, 0.444, result.KnowledgeMastery["Loops"].MeanMastery, 1e-3)
}

func TestAnalysis_SentinelTimeMemoryExcluded(t *testing.T) {
	subs := []model.SubmissionRecord{
		{StudentID: "s1", TitleID: "q1", Timestamp: 1000, State: "Absolutely_Correct", Score: f(3), TimeConsume: f(100), Memory: f(512)},
		{StudentID: "s1", TitleID: "q1", Timestamp: 2000, State: "Absolutely_Correct", Score: f(3), Memory: f(0)},
	}

	svc := &AnalysisService{Config: testConfig()}
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "")
	require.NoError(t, err)

	loops := result.KnowledgeMastery["Loops"]
	require.NotNil(t, loops.AvgTimeConsume)
	assert.InDelta(t, 100.0, *loops.AvgTimeConsume, 1e-9)
	require.NotNil(t, loops.AvgMemory)
	assert.InDelta(t, 512.0, *loops.AvgMemory, 1e-9)
}

func TestAnalysis_AllSentinelAveragesAreNil(t *testing.T) {
	subs := []model.SubmissionRecord{
		sub("s1", "q1", 1000, "Absolutely_Correct", 3),
	}

	svc := &AnalysisService{Config: testConfig()}
	result, err := svc.Compute(testSnapshot(subs, loopsItems(), nil), "")
	require.NoError(t, err)

	loops := result.KnowledgeMastery["Loops"]
	assert.Nil(t, loops.AvgTimeConsume)
	assert.Nil(t, loops.AvgMemory)
}
