package model

// 知识点缺失时的占位标签，与原始数据约定保持一致。
const (
	UnknownKnowledge       = "未知"
	UncategorizedKnowledge = "未分类"
)

// Item 对应 Data_TitleInfo.csv 的一行：题目及其两级知识点归属。
// 一道题在一次分析运行内只属于一个 (knowledge, sub_knowledge) 组合。
type Item struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	TitleID string `gorm:"size:64;uniqueIndex" json:"title_ID"`
	// 题目满分；同一题出现多行时取最大值
	Score        float64 `json:"score"`
	Knowledge    string  `gorm:"size:128;index" json:"knowledge"`
	SubKnowledge string  `gorm:"size:128;index" json:"sub_knowledge"`
}

func (Item) TableName() string {
	return "items"
}
