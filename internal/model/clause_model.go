package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Clause struct {
	Id            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AgreementId   uuid.UUID        `gorm:"type:uuid;not null;index"`
	AgreementName string           `gorm:"->;-:migration"` // joined from agreements on read
	ClauseType    string           `gorm:"type:varchar(100);not null;index"`
	Title         string           `gorm:"type:varchar(255)"`
	Text          string           `gorm:"type:text"`
	Summary       string           `gorm:"type:text"`
	RiskLevel     string           `gorm:"type:varchar(10);index"`
	Favorability  string           `gorm:"type:varchar(30)"`
	Embedding     *pgvector.Vector `gorm:"type:vector"`
	X             *float64
	Y             *float64
	ClusterId     *int `gorm:"index"`
	IsOutlier     bool `gorm:"default:false"`
	OutlierScore  *float64
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Clause) TableName() string {
	return "clauses"
}
