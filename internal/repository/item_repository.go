package repository

import (
	"github.com/BestDemain/EduAssistSys/internal/model"
	"gorm.io/gorm"
)

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

func (r *ItemRepository) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := r.DB.Order("title_id ASC").Find(&items).Error
	return items, err
}

func (r *ItemRepository) FindByKnowledge(knowledge string) ([]model.Item, error) {
	var items []model.Item
	err := r.DB.Where("knowledge = ?", knowledge).Order("title_id ASC").Find(&items).Error
	return items, err
}

func (r *ItemRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Item{}).Count(&total).Error
	return total, err
}

// ReplaceAll 以导入的数据整体替换现有题目。
func (r *ItemRepository) ReplaceAll(items []model.Item, batchLen int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, batchLen).Error
	})
}
