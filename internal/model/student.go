package model

// Student 对应 Data_StudentInfo.csv 的一行。
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	StudentID string `gorm:"size:64;uniqueIndex" json:"student_ID"`
	Sex       string `gorm:"size:16" json:"sex"`
	Age       int    `json:"age"`
	Major     string `gorm:"size:128" json:"major"`
}

func (Student) TableName() string {
	return "students"
}
