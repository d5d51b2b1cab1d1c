package govtech

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	exportingCountry  = "RW"
	manifestPrefix    = "RW-ISH-"
	unknownNationalID = "UNKNOWN"
)

type manifestDocument struct {
	XMLName     xml.Name            `xml:"urn:eac:customs:manifest:v1 CustomsManifest"`
	ID          string              `xml:"id,attr"`
	Header      manifestHeader      `xml:"Header"`
	Consignment manifestConsignment `xml:"Consignment"`
	Receipt     manifestReceipt     `xml:"EBMReceipt"`
}

type manifestHeader struct {
	ManifestNumber     string `xml:"ManifestNumber"`
	IssueDate          string `xml:"IssueDate"`
	ExportingCountry   string `xml:"ExportingCountry"`
	DestinationCountry string `xml:"DestinationCountry"`
}

type manifestConsignment struct {
	TrackingCode string            `xml:"TrackingCode"`
	Commodity    manifestCommodity `xml:"Commodity"`
	Exporter     manifestExporter  `xml:"Exporter"`
}

type manifestCommodity struct {
	Description   string        `xml:"Description"`
	HSCode        string        `xml:"HSCode"`
	WeightKG      string        `xml:"WeightKG"`
	DeclaredValue declaredValue `xml:"DeclaredValue"`
}

type declaredValue struct {
	Currency string `xml:"currency,attr"`
	Amount   string `xml:",chardata"`
}

type manifestExporter struct {
	NationalID string `xml:"NationalID"`
	Phone      string `xml:"Phone"`
}

type manifestReceipt struct {
	ReceiptNumber string `xml:"ReceiptNumber"`
	Signature     string `xml:"Signature"`
}

// CustomsManifestGenerator renders the EAC customs manifest of an international shipment.
type CustomsManifestGenerator struct{}

func NewCustomsManifestGenerator() CustomsManifestGenerator {
	return CustomsManifestGenerator{}
}

func (CustomsManifestGenerator) Generate(_ context.Context, in ports.ManifestInput) (string, error) {
	if in.Shipment == nil {
		return "", errs.NewValueIsRequiredError("shipment")
	}
	s := in.Shipment
	if err := s.CanGenerateCustomsManifest(); err != nil {
		return "", err
	}

	nationalID := in.Exporter.NationalID
	if nationalID == "" {
		nationalID = unknownNationalID
	}

	doc := manifestDocument{
		ID: strings.ToUpper(uuid.NewString()[:8]),
		Header: manifestHeader{
			ManifestNumber:     manifestPrefix + s.TrackingCode().String(),
			IssueDate:          s.CreatedAt().UTC().Format("2006-01-02"),
			ExportingCountry:   exportingCountry,
			DestinationCountry: s.DestinationCountry(),
		},
		Consignment: manifestConsignment{
			TrackingCode: s.TrackingCode().String(),
			Commodity: manifestCommodity{
				Description: in.Commodity.Name(),
				HSCode:      in.Commodity.CustomsCodeOrDefault(),
				WeightKG:    s.WeightKg().String(),
				DeclaredValue: declaredValue{
					Currency: "RWF",
					Amount:   s.DeclaredValue().StringFixed(2),
				},
			},
			Exporter: manifestExporter{
				NationalID: nationalID,
				Phone:      in.Exporter.Phone,
			},
		},
		Receipt: manifestReceipt{
			ReceiptNumber: s.TaxReceipt().Number(),
			Signature:     s.TaxReceipt().Signature(),
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render customs manifest: %w", err)
	}
	return xml.Header + string(out), nil
}
