package govtech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const signAttempts = 3

// TaxReceiptSigner obtains an EBM receipt for a captured payment. When the revenue
// authority cannot be reached after signAttempts tries it signs the receipt locally
// and marks it as a fallback.
type TaxReceiptSigner struct {
	baseURL      string
	secret       string
	client       *http.Client
	initialDelay time.Duration
	logger       *slog.Logger
}

func NewTaxReceiptSigner(baseURL, secret string, client *http.Client, logger *slog.Logger) *TaxReceiptSigner {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &TaxReceiptSigner{
		baseURL:      strings.TrimRight(baseURL, "/"),
		secret:       secret,
		client:       client,
		initialDelay: 200 * time.Millisecond,
		logger:       logger.With("component", "TaxReceiptSigner"),
	}
}

// WithInitialDelay sets the first backoff interval.
func (s *TaxReceiptSigner) WithInitialDelay(d time.Duration) *TaxReceiptSigner {
	s.initialDelay = d
	return s
}

type signRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PayerPhone    string `json:"payer_phone"`
}

type signResponse struct {
	ReceiptNumber string `json:"receipt_number"`
	Signature     string `json:"signature"`
}

func (s *TaxReceiptSigner) Sign(ctx context.Context, p *payment.Payment) (shipment.TaxReceipt, error) {
	if err := p.Validate(); err != nil {
		return shipment.TaxReceipt{}, err
	}
	if p.Status() != payment.Success && p.Status() != payment.Refunded {
		return shipment.TaxReceipt{}, errs.NewValueIsInvalidErrorWithCause("payment",
			fmt.Errorf("%s payment has no captured amount", p.Status()))
	}

	body, err := json.Marshal(signRequest{
		TransactionID: p.ID().String(),
		Amount:        p.Amount().StringFixed(2),
		Currency:      p.Currency(),
		PayerPhone:    p.PayerPhone(),
	})
	if err != nil {
		return shipment.TaxReceipt{}, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialDelay
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, signAttempts-1), ctx)

	var signed signResponse
	err = backoff.Retry(func() error {
		var callErr error
		signed, callErr = s.call(ctx, body)
		return callErr
	}, retry)
	if err == nil {
		return shipment.NewTaxReceipt(signed.ReceiptNumber, signed.Signature, false)
	}

	s.logger.WarnContext(ctx, "revenue authority unavailable, signing locally",
		"payment_id", p.ID().String(),
		"error", err)
	return s.fallback(p)
}

func (s *TaxReceiptSigner) call(ctx context.Context, body []byte) (signResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/ebm/sign/", bytes.NewReader(body))
	if err != nil {
		return signResponse{}, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return signResponse{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return signResponse{}, fmt.Errorf("revenue authority answered %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return signResponse{}, backoff.Permanent(fmt.Errorf("revenue authority answered %d", resp.StatusCode))
	}

	var out signResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return signResponse{}, backoff.Permanent(err)
	}
	if out.ReceiptNumber == "" || out.Signature == "" {
		return signResponse{}, backoff.Permanent(fmt.Errorf("revenue authority returned an incomplete receipt"))
	}
	return out, nil
}

// fallback signs sha256(payment id + amount + secret) under a LOCAL- receipt number.
func (s *TaxReceiptSigner) fallback(p *payment.Payment) (shipment.TaxReceipt, error) {
	id := p.ID().String()
	sum := sha256.Sum256([]byte(id + p.Amount().StringFixed(2) + s.secret))
	number := "LOCAL-" + strings.ToUpper(id[:8])
	return shipment.NewTaxReceipt(number, hex.EncodeToString(sum[:]), true)
}
