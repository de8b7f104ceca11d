package repository

import (
	"github.com/BestDemain/EduAssistSys/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) FindAll() ([]model.SubmissionRecord, error) {
	var records []model.SubmissionRecord
	err := r.DB.Order("timestamp ASC, id ASC").Find(&records).Error
	return records, err
}

// Find 按班级/学生过滤，二者都可为空。
func (r *SubmissionRepository) Find(classID, studentID string, limit, offset int) ([]model.SubmissionRecord, int64, error) {
	query := r.DB.Model(&model.SubmissionRecord{})
	if classID != "" {
		query = query.Where("class = ?", classID)
	}
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var records []model.SubmissionRecord
	err := query.Order("timestamp ASC, id ASC").Find(&records).Error
	return records, total, err
}

func (r *SubmissionRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.SubmissionRecord{}).Count(&total).Error
	return total, err
}

// ReplaceAll 以导入的数据整体替换现有记录。
func (r *SubmissionRepository) ReplaceAll(records []model.SubmissionRecord, batchLen int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.SubmissionRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, batchLen).Error
	})
}
