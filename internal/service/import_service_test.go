package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BestDemain/EduAssistSys/internal/config"
)

func writeDataset(t *testing.T, dir string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, submitRecordDir), 0o755))

	titleInfo := `title_ID,score,knowledge,sub_knowledge
Question_1,3,r8S3g,mJ6eL
Question_1,4,r8S3g,mJ6eL
Question_2,3,t5V9e,
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, titleInfoFile), []byte(titleInfo), 0o644))

	studentInfo := `student_ID,sex,age,major
Student_1,男,20,计算机科学
Student_2,女,21,软件工程
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, studentInfoFile), []byte(studentInfo), 0o644))

	submits := `class,time,state,score,title_ID,method,memory,timeconsume,student_ID
Class1,1693476000,Absolutely_Correct,3,Question_1,Method_1,256,120,Student_1
Class1,1693476100,Partially_Correct,2,Question_1,Method_1,--,--,Student_2
Class1,1693476200,Error3,1,Question_2,Method_2,128,40,Student_1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, submitRecordDir, "SubmitRecord-Class1.csv"), []byte(submits), 0o644))
}

func TestLocalSource_LoadAndPrecompute(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	svc := &ImportService{Config: &config.Config{Data: config.DataConfig{Source: "local", Dir: dir}}}
	src, err := svc.source()
	require.NoError(t, err)

	ctx := context.Background()

	items, err := svc.loadItems(ctx, src)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// 同一题多行取最大满分
	assert.Equal(t, 4.0, items[0].Score)
	// 空的从属知识点归入未分类
	assert.Equal(t, "未分类", items[1].SubKnowledge)

	students, err := svc.loadStudents(ctx, src)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 20, students[0].Age)

	maxScores := map[string]float64{"Question_1": 4, "Question_2": 3}
	records, classes, err := svc.loadSubmissions(ctx, src, maxScores)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Class1"}, classes)

	// 班级来自 CSV 的 class 列（缺失时才退回文件名）
	assert.Equal(t, "Class1", records[0].Class)
	assert.Equal(t, int64(1693476000), records[0].Timestamp)

	// 哨兵值解析为缺失
	assert.Nil(t, records[1].TimeConsume)
	assert.Nil(t, records[1].Memory)
	require.NotNil(t, records[0].Memory)
	assert.Equal(t, 256.0, *records[0].Memory)

	// 导入时按分段计算法预计算掌握度
	require.NotNil(t, records[0].Mastery)
	require.NotNil(t, records[1].Mastery)
	require.NotNil(t, records[2].Mastery)
	assert.InDelta(t, 1.0, *records[0].Mastery, 1e-9)
	assert.InDelta(t, 0.5, *records[1].Mastery, 1e-9)
	assert.InDelta(t, 0.1+0.2/3.0, *records[2].Mastery, 1e-9)
}

// 源数据自带 Mastery 列时直接入库，包括合法的 0.0。
func TestLocalSource_MasteryColumnPassthrough(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, submitRecordDir), 0o755))

	submits := `class,time,state,score,title_ID,method,memory,timeconsume,student_ID,Mastery
Class1,1693476000,Absolutely_Correct,3,Question_1,Method_1,256,120,Student_1,0
Class1,1693476100,Partially_Correct,2,Question_1,Method_1,--,--,Student_2,0.75
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, submitRecordDir, "SubmitRecord-Class1.csv"), []byte(submits), 0o644))

	svc := &ImportService{Config: &config.Config{Data: config.DataConfig{Source: "local", Dir: dir}}}
	src, err := svc.source()
	require.NoError(t, err)

	records, _, err := svc.loadSubmissions(context.Background(), src, map[string]float64{"Question_1": 4})
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].Mastery)
	assert.InDelta(t, 0.0, *records[0].Mastery, 1e-9)
	require.NotNil(t, records[1].Mastery)
	assert.InDelta(t, 0.75, *records[1].Mastery, 1e-9)
}

func TestClassFromFilename(t *testing.T) {
	assert.Equal(t, "Class1", classFromFilename("Data_SubmitRecord/SubmitRecord-Class1.csv"))
	assert.Equal(t, "Class15", classFromFilename("SubmitRecord-Class15.csv"))
}
