package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/repository"
	"github.com/BestDemain/EduAssistSys/pkg/logger"
	"github.com/BestDemain/EduAssistSys/pkg/monitoring"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const datasetVersionKey = "edu:dataset:version"

// DataService 负责把数据库中的提交/题目/学生表物化成一次分析运行
// 使用的快照，并提供以快照版本为前缀的结果缓存。
// 快照在导入新数据集前保持不变，全部分析组件共享同一份只读快照。
type DataService struct {
	SubmissionRepo *repository.SubmissionRepository
	ItemRepo       *repository.ItemRepository
	StudentRepo    *repository.StudentRepository
	Redis          *redis.Client
	Config         *config.Config

	mu   sync.RWMutex
	snap *model.Snapshot
}

func NewDataService(
	submissionRepo *repository.SubmissionRepository,
	itemRepo *repository.ItemRepository,
	studentRepo *repository.StudentRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *DataService {
	return &DataService{
		SubmissionRepo: submissionRepo,
		ItemRepo:       itemRepo,
		StudentRepo:    studentRepo,
		Redis:          rdb,
		Config:         cfg,
	}
}

// Snapshot 返回当前分析快照，首次访问时从数据库构建。
func (s *DataService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		return s.snap, nil
	}

	start := time.Now()

	subs, err := s.SubmissionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	items, err := s.ItemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	students, err := s.StudentRepo.FindAll()
	if err != nil {
		return nil, err
	}

	s.snap = model.NewSnapshot(s.version(ctx), subs, items, students)
	monitoring.SnapshotRows.Set(float64(len(s.snap.Rows)))

	logger.Log.Info("Analysis snapshot built",
		zap.String("version", s.snap.Version),
		zap.Int("submissions", len(subs)),
		zap.Int("items", len(items)),
		zap.Int("students", len(students)),
		zap.Duration("elapsed", time.Since(start)))

	return s.snap, nil
}

// Invalidate 在导入新数据集后丢弃快照并递增数据集版本，
// 旧版本前缀的缓存条目随 TTL 自然过期。
func (s *DataService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()

	if s.Redis != nil {
		if err := s.Redis.Incr(ctx, datasetVersionKey).Err(); err != nil {
			logger.Log.Warn("Failed to bump dataset version", zap.Error(err))
		}
	}
}

func (s *DataService) version(ctx context.Context) string {
	if s.Redis == nil {
		return "0"
	}
	v, err := s.Redis.Get(ctx, datasetVersionKey).Result()
	if err != nil {
		return "0"
	}
	return v
}

// CacheKey 拼出带快照版本前缀的缓存键。
func (s *DataService) CacheKey(version string, parts ...string) string {
	return fmt.Sprintf("edu:v%s:%s", version, strings.Join(parts, ":"))
}

// CacheGet 尝试读取缓存的分析结果；缓存不可用时静默放过。
func (s *DataService) CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.Redis == nil || s.Config.Redis.CacheTTL <= 0 {
		return false
	}
	raw, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Log.Warn("Discarding malformed cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// CachePut 写入分析结果缓存。
func (s *DataService) CachePut(ctx context.Context, key string, val interface{}) {
	if s.Redis == nil || s.Config.Redis.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	ttl := time.Duration(s.Config.Redis.CacheTTL) * time.Second
	if err := s.Redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Log.Warn("Failed to cache analysis result", zap.String("key", key), zap.Error(err))
	}
}
