package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Agreement struct {
	Id        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string           `gorm:"type:varchar(255);not null"`
	Provider  string           `gorm:"type:varchar(255)"`
	Embedding *pgvector.Vector `gorm:"type:vector"`
	X         *float64
	Y         *float64
	Clauses   []Clause  `gorm:"foreignKey:AgreementId;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Agreement) TableName() string {
	return "agreements"
}
