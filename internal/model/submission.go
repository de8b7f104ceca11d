package model

// SubmissionRecord 对应 SubmitRecord-*.csv 的一行：一名学生对一道题的一次提交。
// 入库后不可变，引擎只读。
type SubmissionRecord struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Class     string `gorm:"size:32;index" json:"class"`
	StudentID string `gorm:"size:64;index" json:"student_ID"`
	TitleID   string `gorm:"size:64;index" json:"title_ID"`
	// UTC 秒级时间戳
	Timestamp int64  `gorm:"index" json:"time"`
	State     string `gorm:"size:64" json:"state"`
	// nil 表示原始数据缺失或非数值
	Score *float64 `json:"score"`
	// 原始数据用 "--"/"-" 表示缺失，入库解析为 nil
	TimeConsume *float64 `json:"timeconsume"`
	// <=0 视为缺失，保留原值以便排查
	Memory *float64 `json:"memory"`
	Method string   `gorm:"size:128" json:"method"`
	// 导入时按分段计算法预计算；nil 表示该列缺失，合并快照时补齐
	Mastery *float64 `json:"mastery"`
}

func (SubmissionRecord) TableName() string {
	return "submission_records"
}
