package repository

import (
	"github.com/BestDemain/EduAssistSys/internal/model"
	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) FindAll() ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Order("student_id ASC").Find(&students).Error
	return students, err
}

func (r *StudentRepository) FindByStudentID(studentID string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("student_id = ?", studentID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// ReplaceAll 以导入的数据整体替换现有学生。
func (r *StudentRepository) ReplaceAll(students []model.Student, batchLen int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Student{}).Error; err != nil {
			return err
		}
		if len(students) == 0 {
			return nil
		}
		return tx.CreateInBatches(students, batchLen).Error
	})
}
