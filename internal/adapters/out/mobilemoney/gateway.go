// Package mobilemoney connects payments to the mobile money providers: collection
// requests go out through PaymentGateway, outcomes come back as signed webhooks.
package mobilemoney

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
)

// SandboxGateway accepts every collection request and answers with a fresh gateway
// reference. The outcome is delivered later through the webhook, as with the real
// providers.
type SandboxGateway struct {
	logger *slog.Logger
}

func NewSandboxGateway(logger *slog.Logger) *SandboxGateway {
	return &SandboxGateway{logger: logger.With("component", "SandboxGateway")}
}

func (g *SandboxGateway) Initiate(ctx context.Context, p *payment.Payment) (ports.GatewayResponse, error) {
	if err := p.Validate(); err != nil {
		return ports.GatewayResponse{}, err
	}

	prefix, err := refPrefix(p.Provider())
	if err != nil {
		return ports.GatewayResponse{}, errs.NewExternalServiceError("mobile money", err)
	}
	ref := prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])

	g.logger.InfoContext(ctx, "collection requested",
		"payment_id", p.ID().String(),
		"provider", p.Provider().String(),
		"gateway_ref", ref,
		"amount", p.Amount().StringFixed(2))

	return ports.GatewayResponse{GatewayRef: ref, Status: payment.Pending}, nil
}

func refPrefix(provider payment.Provider) (string, error) {
	switch provider {
	case payment.MTNMoMo:
		return "MOMO", nil
	case payment.Airtel:
		return "AIRTEL", nil
	default:
		return "", fmt.Errorf("provider %s is not supported", provider)
	}
}
