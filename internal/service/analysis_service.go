package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/util"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
)

// AnalysisService 把一次分析运行的提交行沿 知识点→从属知识点→题目
// 的层级向上折叠，得到各级聚合指标并标记薄弱环节。
type AnalysisService struct {
	Data   *DataService
	Config *config.Config
}

func NewAnalysisService(data *DataService, cfg *config.Config) *AnalysisService {
	return &AnalysisService{Data: data, Config: cfg}
}

// AnalyzeKnowledgeMastery 分析知识点掌握程度；studentID 为空时分析全体。
func (s *AnalysisService) AnalyzeKnowledgeMastery(ctx context.Context, studentID string) (*model.KnowledgeMasteryResult, error) {
	start := time.Now()

	snap, err := s.Data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := s.Data.CacheKey(snap.Version, "analysis", "knowledge", studentID, s.Config.Analysis.MasterySource)
	var cached model.KnowledgeMasteryResult
	if s.Data.CacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.Compute(snap, studentID)
	monitoring.ObserveAnalysis("knowledge_mastery", start, err)
	if err != nil {
		return nil, err
	}

	s.Data.CachePut(ctx, key, result)
	return result, nil
}

// 树状折叠的中间结构：知识点 → 从属知识点 → 题目 → 累加器。
type knowledgeTree map[string]map[string]map[string]*statAccum

func buildKnowledgeTree(rows []model.Row) knowledgeTree {
	tree := make(knowledgeTree)
	for i := range rows {
		r := &rows[i]
		subs, ok := tree[r.Knowledge]
		if !ok {
			subs = make(map[string]map[string]*statAccum)
			tree[r.Knowledge] = subs
		}
		items, ok := subs[r.SubKnowledge]
		if !ok {
			items = make(map[string]*statAccum)
			subs[r.SubKnowledge] = items
		}
		acc, ok := items[r.Record.TitleID]
		if !ok {
			acc = newStatAccum()
			items[r.Record.TitleID] = acc
		}
		acc.add(r)
	}
	return tree
}

// Compute 是纯函数形式的聚合入口，方便在内存快照上直接测试。
func (s *AnalysisService) Compute(snap *model.Snapshot, studentID string) (*model.KnowledgeMasteryResult, error) {
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

	source := s.Config.Analysis.MasterySource
	tree := buildKnowledgeTree(rows)

	mastery := make(map[string]*model.KnowledgeMastery, len(tree))
	for knowledge, subs := range tree {
		conceptAcc := newStatAccum()
		subResults := make(map[string]*model.SubKnowledgeMastery, len(subs))

		// 先把每个从属知识点折叠出来
		subAccs := make(map[string]*statAccum, len(subs))
		conceptItemCount := 0
		for sub, items := range subs {
			subAcc := newStatAccum()
			for _, itemAcc := range items {
				subAcc.merge(itemAcc)
			}
			subAccs[sub] = subAcc
			conceptItemCount += len(items)
			conceptAcc.merge(subAcc)
		}

		for sub, subAcc := range subAccs {
			weight := 0.0
			if conceptItemCount > 0 {
				weight = float64(len(subAcc.items)) / float64(conceptItemCount)
			}
			subResults[sub] = &model.SubKnowledgeMastery{
				CorrectRate:           subAcc.correctRate(),
				CorrectSubmissionRate: subAcc.passRate(),
				MeanMastery:           subAcc.meanMastery(source),
				AvgTimeConsume:        subAcc.avgTime(),
				AvgMemory:             subAcc.avgMemory(),
				TotalSubmissions:      subAcc.count,
				CorrectSubmission:     subAcc.correct,
				TotalScore:            subAcc.total,
				EarnedScore:           subAcc.earned,
				Weight:                weight,
			}
		}

		mastery[knowledge] = &model.KnowledgeMastery{
			CorrectRate:           conceptAcc.correctRate(),
			CorrectSubmissionRate: conceptAcc.passRate(),
			MeanMastery:           conceptAcc.meanMastery(source),
			AvgTimeConsume:        conceptAcc.avgTime(),
			AvgMemory:             conceptAcc.avgMemory(),
			TotalSubmissions:      conceptAcc.count,
			CorrectSubmission:     conceptAcc.correct,
			TotalScore:            conceptAcc.total,
			EarnedScore:           conceptAcc.earned,
			SubKnowledge:          subResults,
		}
	}

	return &model.KnowledgeMasteryResult{
		StudentID:        studentID,
		KnowledgeMastery: mastery,
		WeakPoints:       s.detectWeakPoints(mastery),
	}, nil
}

// detectWeakPoints 识别薄弱环节：知识点正确率低于 0.6，
// 从属知识点低于 0.5（阈值可配置）。输出按知识点名排序，保证确定性。
func (s *AnalysisService) detectWeakPoints(mastery map[string]*model.KnowledgeMastery) []model.WeakPoint {
	kThr := s.Config.Analysis.WeakKnowledgeThreshold
	subThr := s.Config.Analysis.WeakSubKnowledgeThreshold

	knowledgeKeys := make([]string, 0, len(mastery))
	for k := range mastery {
		knowledgeKeys = append(knowledgeKeys, k)
	}
	sort.Strings(knowledgeKeys)

	weakPoints := make([]model.WeakPoint, 0)
	for _, knowledge := range knowledgeKeys {
		data := mastery[knowledge]
		if data.CorrectRate < kThr {
			weakPoints = append(weakPoints, model.WeakPoint{
				Knowledge:   knowledge,
				CorrectRate: data.CorrectRate,
				Reason:      fmt.Sprintf("正确率低于%.0f%%", kThr*100),
			})
		}

		subKeys := make([]string, 0, len(data.SubKnowledge))
		for sub := range data.SubKnowledge {
			subKeys = append(subKeys, sub)
		}
		sort.Strings(subKeys)

		for _, sub := range subKeys {
			subData := data.SubKnowledge[sub]
			if subData.CorrectRate < subThr {
				weakPoints = append(weakPoints, model.WeakPoint{
					Knowledge:    knowledge,
					SubKnowledge: sub,
					CorrectRate:  subData.CorrectRate,
					Reason:       fmt.Sprintf("从属知识点正确率低于%.0f%%", subThr*100),
				})
			}
		}
	}
	return weakPoints
}
