package service

import (
	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			MasterySource:             "mastery",
			TimezoneOffsetHours:       8,
			WeakKnowledgeThreshold:    0.6,
			WeakSubKnowledgeThreshold: 0.5,
			Difficulty:                config.DifficultyThresholds{Low: 0.3, High: 0.7},
			Trend: config.TrendThresholds{
				Excellent: 0.85,
				Good:      0.7,
				Fair:      0.5,
				Progress:  0.15,
				Decline:   0.1,
			},
			CurveMaxScore: 3.0,
		},
	}
}

func f(v float64) *float64 { return &v }

// sub 构造一条提交记录，掌握度留给快照按分段计算法补齐。
func sub(studentID, titleID string, ts int64, state string, score float64) model.SubmissionRecord {
	return model.SubmissionRecord{
		StudentID: studentID,
		TitleID:   titleID,
		Timestamp: ts,
		State:     state,
		Score:     f(score),
	}
}

func testSnapshot(subs []model.SubmissionRecord, items []model.Item, students []model.Student) *model.Snapshot {
	return model.NewSnapshot("test", subs, items, students)
}
