package util

import "errors"

var (
	ErrNoSubmissionData       = errors.New("没有找到提交记录数据")
	ErrNoQuestionData         = errors.New("没有找到题目数据")
	ErrNoStudentData          = errors.New("没有找到学生数据")
	ErrStudentNotFound        = errors.New("没有找到该学生的提交记录")
	ErrUnsupportedGranularity = errors.New("不支持的时间粒度")
	ErrUnsupportedDimension   = errors.New("不支持的分组维度")
	ErrDatasetNotLoaded       = errors.New("数据集尚未导入")
	ErrInvalidCredentials     = errors.New("用户名或密码错误")
)
