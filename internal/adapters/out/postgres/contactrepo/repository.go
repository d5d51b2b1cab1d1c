// Package contactrepo is a read model over the agents table, which the identity
// service owns and keeps up to date.
package contactrepo

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string    `gorm:"type:varchar(128);not null;default:''"`
	Phone      string    `gorm:"type:varchar(20);not null;default:''"`
	Email      string    `gorm:"type:varchar(255);not null;default:''"`
	NationalID string    `gorm:"type:varchar(16);not null;default:''"`
}

func (AgentDTO) TableName() string {
	return "agents"
}

type GormContactDirectory struct {
	db *gorm.DB
}

func NewGormContactDirectory(db *gorm.DB) *GormContactDirectory {
	return &GormContactDirectory{db: db}
}

func (r *GormContactDirectory) Lookup(ctx context.Context, agentID kernel.UUID) (ports.Contact, error) {
	if err := agentID.Validate(); err != nil {
		return ports.Contact{}, err
	}

	var dto AgentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", agentID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Contact{}, errs.NewObjectNotFoundError("agent", agentID.String())
		}
		return ports.Contact{}, err
	}

	return ports.Contact{
		AgentID:    agentID,
		FullName:   dto.FullName,
		Phone:      dto.Phone,
		Email:      dto.Email,
		NationalID: dto.NationalID,
	}, nil
}
