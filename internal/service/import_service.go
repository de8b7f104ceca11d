package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/model"
	"github.com/BestDemain/EduAssistSys/internal/repository"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

const (
	titleInfoFile    = "Data_TitleInfo.csv"
	studentInfoFile  = "Data_StudentInfo.csv"
	submitRecordDir  = "Data_SubmitRecord"
	submitFilePrefix = "SubmitRecord-"
)

// ImportSummary 是一次数据集导入的结果统计。
type ImportSummary struct {
	Items       int      `json:"items"`
	Students    int      `json:"students"`
	Submissions int      `json:"submissions"`
	Classes     []string `json:"classes"`
	ElapsedMS   int64    `json:"elapsed_ms"`
}

// datasetSource 抽象数据集文件的来源，本地目录和 MinIO 桶各提供一个实现。
type datasetSource interface {
	// Open 打开数据集根目录下的一个文件，相对路径用 / 分隔
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// ListSubmitFiles 列出 Data_SubmitRecord 下的 SubmitRecord-*.csv
	ListSubmitFiles(ctx context.Context) ([]string, error)
}

type localSource struct {
	dir string
}

func (s *localSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.FromSlash(name)))
}

func (s *localSource) ListSubmitFiles(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, submitRecordDir))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, submitFilePrefix) && strings.HasSuffix(name, ".csv") {
			files = append(files, submitRecordDir+"/"+name)
		}
	}
	sort.Strings(files)
	return files, nil
}

type minioSource struct {
	client *minio.Client
	bucket string
}

func (s *minioSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject 是惰性的，提前探测一次让缺失对象尽早报错
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (s *minioSource) ListSubmitFiles(ctx context.Context) ([]string, error) {
	var files []string
	prefix := submitRecordDir + "/" + submitFilePrefix
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(obj.Key, ".csv") {
			files = append(files, obj.Key)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ImportService 从数据集来源读取 CSV，预计算掌握度后整体替换数据库内容。
type ImportService struct {
	Submissions *repository.SubmissionRepository
	Items       *repository.ItemRepository
	Students    *repository.StudentRepository
	Data        *DataService
	Config      *config.Config
	Logger      *zap.Logger
}

func NewImportService(
	submissions *repository.SubmissionRepository,
	items *repository.ItemRepository,
	students *repository.StudentRepository,
	data *DataService,
	cfg *config.Config,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		Submissions: submissions,
		Items:       items,
		Students:    students,
		Data:        data,
		Config:      cfg,
		Logger:      logger,
	}
}

func (s *ImportService) source() (datasetSource, error) {
	data := s.Config.Data
	switch data.Source {
	case "minio":
		client, err := minio.New(data.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(data.MinioAccessID, data.MinioSecret, ""),
			Secure: data.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
		}
		return &minioSource{client: client, bucket: data.MinioBucket}, nil
	default:
		return &localSource{dir: data.Dir}, nil
	}
}

// ImportDataset 导入完整数据集：题目信息、学生信息和所有班级的提交记录。
// 导入是替换式的，成功后使快照和分析缓存失效。
func (s *ImportService) ImportDataset(ctx context.Context) (*ImportSummary, error) {
	start := time.Now()

	src, err := s.source()
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("读取题目信息失败: %w", err)
	}
	if len(items) == 0 {
		return nil, util.ErrNoQuestionData
	}

	students, err := s.loadStudents(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("读取学生信息失败: %w", err)
	}

	maxScores := make(map[string]float64, len(items))
	for _, it := range items {
		maxScores[it.TitleID] = it.Score
	}

	records, classes, err := s.loadSubmissions(ctx, src, maxScores)
	if err != nil {
		return nil, fmt.Errorf("读取提交记录失败: %w", err)
	}
	if len(records) == 0 {
		return nil, util.ErrNoSubmissionData
	}

	batchLen := s.Config.Data.ImportBatchLen
	if batchLen <= 0 {
		batchLen = 1000
	}

	if err := s.Items.ReplaceAll(items, batchLen); err != nil {
		return nil, fmt.Errorf("写入题目信息失败: %w", err)
	}
	if err := s.Students.ReplaceAll(students, batchLen); err != nil {
		return nil, fmt.Errorf("写入学生信息失败: %w", err)
	}
	if err := s.Submissions.ReplaceAll(records, batchLen); err != nil {
		return nil, fmt.Errorf("写入提交记录失败: %w", err)
	}

	s.Data.Invalidate(ctx)

	summary := &ImportSummary{
		Items:       len(items),
		Students:    len(students),
		Submissions: len(records),
		Classes:     classes,
		ElapsedMS:   time.Since(start).Milliseconds(),
	}
	s.Logger.Info("数据集导入完成",
		zap.Int("items", summary.Items),
		zap.Int("students", summary.Students),
		zap.Int("submissions", summary.Submissions),
		zap.Strings("classes", classes),
		zap.Int64("elapsed_ms", summary.ElapsedMS))
	return summary, nil
}

// csvTable 按表头索引列，列缺失时取值为空串。
type csvTable struct {
	index map[string]int
	row   []string
}

func newCSVTable(header []string) *csvTable {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	return &csvTable{index: index}
}

func (t *csvTable) get(col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(t.row) {
		return ""
	}
	return strings.TrimSpace(t.row[i])
}

func readCSV(r io.Reader, fn func(*csvTable) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return err
	}
	table := newCSVTable(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		table.row = row
		if err := fn(table); err != nil {
			return err
		}
	}
}

func (s *ImportService) loadItems(ctx context.Context, src datasetSource) ([]model.Item, error) {
	f, err := src.Open(ctx, titleInfoFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// 同一题出现多行时满分取最大值
	byTitle := make(map[string]*model.Item)
	order := make([]string, 0)
	err = readCSV(f, func(t *csvTable) error {
		titleID := t.get("title_ID")
		if titleID == "" {
			return nil
		}
		score := util.ParseFloatOrZero(t.get("score"))
		if existing, ok := byTitle[titleID]; ok {
			if score > existing.Score {
				existing.Score = score
			}
			return nil
		}
		byTitle[titleID] = &model.Item{
			TitleID:      titleID,
			Score:        score,
			Knowledge:    t.get("knowledge"),
			SubKnowledge: t.get("sub_knowledge"),
		}
		order = append(order, titleID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(order))
	for _, titleID := range order {
		it := byTitle[titleID]
		if it.Knowledge == "" {
			it.Knowledge = model.UnknownKnowledge
		}
		if it.SubKnowledge == "" {
			it.SubKnowledge = model.UncategorizedKnowledge
		}
		items = append(items, *it)
	}
	return items, nil
}

func (s *ImportService) loadStudents(ctx context.Context, src datasetSource) ([]model.Student, error) {
	f, err := src.Open(ctx, studentInfoFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var students []model.Student
	err = readCSV(f, func(t *csvTable) error {
		studentID := t.get("student_ID")
		if studentID == "" {
			return nil
		}
		students = append(students, model.Student{
			StudentID: studentID,
			Sex:       t.get("sex"),
			Age:       util.ParseIntOrZero(t.get("age")),
			Major:     t.get("major"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (s *ImportService) loadSubmissions(ctx context.Context, src datasetSource, maxScores map[string]float64) ([]model.SubmissionRecord, []string, error) {
	files, err := src.ListSubmitFiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	var records []model.SubmissionRecord
	var classes []string

	for _, name := range files {
		class := classFromFilename(name)
		classes = append(classes, class)

		f, err := src.Open(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		err = readCSV(f, func(t *csvTable) error {
			rec := model.SubmissionRecord{
				Class:       class,
				StudentID:   t.get("student_ID"),
				TitleID:     t.get("title_ID"),
				Timestamp:   util.ParseEpoch(t.get("time")),
				State:       t.get("state"),
				Score:       util.ParseNullableFloat(t.get("score")),
				TimeConsume: util.ParseNullableFloat(t.get("timeconsume")),
				Memory:      util.ParseNullableFloat(t.get("memory")),
				Method:      t.get("method"),
			}
			if c := t.get("class"); c != "" {
				rec.Class = c
			}

			// 源数据自带 Mastery 列时直接入库，否则按分段计算法补齐
			if m := util.ParseNullableFloat(t.get("Mastery")); m != nil {
				rec.Mastery = m
			} else {
				st := model.ParseState(rec.State)
				score, hasScore := 0.0, false
				if rec.Score != nil {
					score, hasScore = *rec.Score, true
				}
				rec.Mastery = util.Float64Ptr(model.Mastery(st, score, hasScore, maxScores[rec.TitleID]))
			}

			records = append(records, rec)
			return nil
		})
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	sort.Strings(classes)
	return records, classes, nil
}

// classFromFilename 从 SubmitRecord-Class1.csv 提取班级标识。
func classFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(filepath.FromSlash(name)), ".csv")
	return strings.TrimPrefix(base, submitFilePrefix)
}
