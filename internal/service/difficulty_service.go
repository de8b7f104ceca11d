package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/util"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
)

// DifficultyService 识别难度标定不合理的题目：做题学生在相关知识点
// 上表现出足够的掌握度，这道题的正确率却异常地低。信号是
// “题目与群体能力错配”，不是“题目很难”。
type DifficultyService struct {
	Data   *DataService
	Config *config.Config
}

func NewDifficultyService(data *DataService, cfg *config.Config) *DifficultyService {
	return &DifficultyService{Data: data, Config: cfg}
}

// AnalyzeQuestionDifficulty 分析全部题目的难度指标并标记异常题。
func (s *DifficultyService) AnalyzeQuestionDifficulty(ctx context.Context) (*model.DifficultyResult, error) {
	start := time.Now()

	snap, err := s.Data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := s.Data.CacheKey(snap.Version, "analysis", "difficulty", s.thresholdsTag())
	var cached model.DifficultyResult
	if s.Data.CacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.Compute(snap)
	monitoring.ObserveAnalysis("question_difficulty", start, err)
	if err != nil {
		return nil, err
	}

	s.Data.CachePut(ctx, key, result)
	return result, nil
}

func (s *DifficultyService) thresholdsTag() string {
	thr := s.Config.Analysis.Difficulty
	return strconv.FormatFloat(thr.Low, 'f', -1, 64) + "-" + strconv.FormatFloat(thr.High, 'f', -1, 64)
}

// Compute 是纯函数形式的难度分析入口。
func (s *DifficultyService) Compute(snap *model.Snapshot) (*model.DifficultyResult, error) {
	if len(snap.Rows) == 0 {
		return nil, util.ErrNoSubmissionData
	}
	if len(snap.Items) == 0 {
		return nil, util.ErrNoQuestionData
	}
	if len(snap.Students) == 0 {
		return nil, util.ErrNoStudentData
	}

	// 按题目累加
	perItem := make(map[string]*statAccum)
	for i := range snap.Rows {
		r := &snap.Rows[i]
		acc, ok := perItem[r.Record.TitleID]
		if !ok {
			acc = newStatAccum()
			perItem[r.Record.TitleID] = acc
		}
		acc.add(r)
	}

	difficulty := make(map[string]*model.QuestionDifficulty, len(perItem))
	for titleID, acc := range perItem {
		qd := &model.QuestionDifficulty{
			TitleID:           titleID,
			CorrectRate:       acc.passRate(),
			AvgTimeConsume:    acc.avgTime(),
			AvgMemory:         acc.avgMemory(),
			TotalSubmissions:  acc.count,
			CorrectSubmission: acc.correct,
			StudentCount:      len(acc.students),
			Knowledge:         model.UnknownKnowledge,
			SubKnowledge:      model.UnknownKnowledge,
		}
		if it, ok := snap.Items[titleID]; ok {
			qd.Knowledge = it.Knowledge
			qd.SubKnowledge = it.SubKnowledge
			qd.MaxScore = it.Score
		}
		difficulty[titleID] = qd
	}

	studentMastery := s.studentKnowledgeMastery(snap)

	// 注意每个学生的知识点掌握度独立计算后再取平均，
	// 不是把所有行混在一起的合并平均。
	thr := s.Config.Analysis.Difficulty
	flagged := make([]model.UnreasonableQuestion, 0)

	titleIDs := make([]string, 0, len(difficulty))
	for titleID := range difficulty {
		titleIDs = append(titleIDs, titleID)
	}
	sort.Strings(titleIDs)

	for _, titleID := range titleIDs {
		qd := difficulty[titleID]
		if qd.CorrectRate >= thr.Low {
			continue
		}

		acc := perItem[titleID]
		var masterySum float64
		var masteryCount int
		for studentID := range acc.students {
			if levels, ok := studentMastery[studentID]; ok {
				if m, ok := levels[qd.Knowledge]; ok {
					masterySum += m
					masteryCount++
				}
			}
		}
		if masteryCount == 0 {
			continue
		}

		avgMastery := masterySum / float64(masteryCount)
		if avgMastery > thr.High {
			flagged = append(flagged, model.UnreasonableQuestion{
				TitleID:      titleID,
				CorrectRate:  qd.CorrectRate,
				AvgMastery:   avgMastery,
				Knowledge:    qd.Knowledge,
				SubKnowledge: qd.SubKnowledge,
				MaxScore:     qd.MaxScore,
				Reason:       "学生知识掌握程度高但题目正确率低",
			})
		}
	}

	return &model.DifficultyResult{
		QuestionDifficulty:    difficulty,
		UnreasonableQuestions: flagged,
	}, nil
}

// studentKnowledgeMastery 逐个学生计算其每个知识点的掌握度。
func (s *DifficultyService) studentKnowledgeMastery(snap *model.Snapshot) map[string]map[string]float64 {
	source := s.Config.Analysis.MasterySource

	perStudent := make(map[string]map[string]*statAccum)
	for i := range snap.Rows {
		r := &snap.Rows[i]
		levels, ok := perStudent[r.Record.StudentID]
		if !ok {
			levels = make(map[string]*statAccum)
			perStudent[r.Record.StudentID] = levels
		}
		acc, ok := levels[r.Knowledge]
		if !ok {
			acc = newStatAccum()
			levels[r.Knowledge] = acc
		}
		acc.add(r)
	}

	out := make(map[string]map[string]float64, len(perStudent))
	for studentID, levels := range perStudent {
		masteries := make(map[string]float64, len(levels))
		for knowledge, acc := range levels {
			masteries[knowledge] = acc.meanMastery(source)
		}
		out[studentID] = masteries
	}
	return out
}
