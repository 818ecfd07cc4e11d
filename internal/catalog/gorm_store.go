package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TemplateModel is the templates table
type TemplateModel struct {
	ID        string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"size:255;not null"`
	URL       string `gorm:"size:1024;not null"`
	Position  int    `gorm:"index;not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TemplateModel) TableName() string {
	return "templates"
}

// GormStore reads the catalog from a SQL database
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]Template, error) {
	var rows []TemplateModel
	if err := s.db.WithContext(ctx).Order("position ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return fromModels(rows), nil
}

// Upsert writes templates in order, replacing rows with the same id
func (s *GormStore) Upsert(ctx context.Context, templates []Template) error {
	if err := Validate(templates); err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}

	rows := toModels(templates)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "url", "position", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert templates: %w", err)
	}
	return nil
}

func toModels(templates []Template) []TemplateModel {
	rows := make([]TemplateModel, len(templates))
	for i, t := range templates {
		rows[i] = TemplateModel{ID: t.ID, Name: t.Name, URL: t.URL, Position: i}
	}
	return rows
}

func fromModels(rows []TemplateModel) []Template {
	templates := make([]Template, len(rows))
	for i, r := range rows {
		templates[i] = Template{ID: r.ID, Name: r.Name, URL: r.URL}
	}
	return templates
}
