package paymentrepo

import (
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDTO enforces one payment per shipment and one payment per gateway reference.
type PaymentDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShipmentID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Provider         string          `gorm:"type:varchar(16);not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	PayerPhone       string          `gorm:"type:varchar(20);not null"`
	GatewayRef       *string         `gorm:"type:varchar(64);uniqueIndex"`
	Status           string          `gorm:"type:varchar(16);not null"`
	FailureReason    string          `gorm:"type:varchar(255);not null;default:''"`
	TaxReceiptSigned bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:               p.ID().Bytes(),
		ShipmentID:       p.ShipmentID().Bytes(),
		Provider:         p.Provider().String(),
		Amount:           p.Amount(),
		Currency:         p.Currency(),
		PayerPhone:       p.PayerPhone(),
		Status:           p.Status().String(),
		FailureReason:    p.FailureReason(),
		TaxReceiptSigned: p.IsTaxReceiptSigned(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
	if ref := p.GatewayRef(); ref != "" {
		dto.GatewayRef = &ref
	}
	return dto
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromRaw(dto.ShipmentID)
	if err != nil {
		return nil, err
	}
	provider, err := payment.ParseProvider(dto.Provider)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var ref string
	if dto.GatewayRef != nil {
		ref = *dto.GatewayRef
	}

	return payment.RestorePayment(payment.State{
		ID:               id,
		ShipmentID:       shipmentID,
		Provider:         provider,
		Amount:           dto.Amount,
		Currency:         dto.Currency,
		PayerPhone:       dto.PayerPhone,
		GatewayRef:       ref,
		Status:           status,
		FailureReason:    dto.FailureReason,
		TaxReceiptSigned: dto.TaxReceiptSigned,
		CreatedAt:        dto.CreatedAt.UTC(),
		UpdatedAt:        dto.UpdatedAt.UTC(),
	})
}
