package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalysisResult struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	AnalysisType string         `gorm:"type:varchar(30);not null;index:idx_analysis_results_type_created,priority:1"`
	Title        string         `gorm:"type:varchar(200);not null"`
	Description  string         `gorm:"type:text"`
	Data         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index:idx_analysis_results_type_created,priority:2"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}
