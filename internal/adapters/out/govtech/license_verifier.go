// Package govtech talks to the licensing authority and the revenue authority, and
// renders EAC customs manifests.
package govtech

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each call to a government service.
const DefaultTimeout = 2 * time.Second

// LicenseVerifier asks the licensing authority whether a driving license is valid and
// insured. Every failure answers false so that an unverifiable driver is never dispatched.
type LicenseVerifier struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewLicenseVerifier(baseURL string, client *http.Client, logger *slog.Logger) *LicenseVerifier {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &LicenseVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.With("component", "LicenseVerifier"),
	}
}

type licenseResponse struct {
	Valid           bool `json:"valid"`
	InsuranceActive bool `json:"insurance_active"`
}

func (v *LicenseVerifier) Verify(ctx context.Context, licenseNumber string) bool {
	endpoint := fmt.Sprintf("%s/api/gov/rura/verify-license/%s/", v.baseURL, url.PathEscape(licenseNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		v.logger.WarnContext(ctx, "license check request failed", "license", licenseNumber, "error", err)
		return false
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.WarnContext(ctx, "licensing authority unreachable", "license", licenseNumber, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.WarnContext(ctx, "license rejected", "license", licenseNumber, "status", resp.StatusCode)
		return false
	}

	var body licenseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		v.logger.WarnContext(ctx, "unreadable license response", "license", licenseNumber, "error", err)
		return false
	}
	return body.Valid && body.InsuranceActive
}
