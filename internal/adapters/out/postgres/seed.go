package postgres

import (
	"context"

	"cargo/internal/adapters/out/postgres/catalogrepo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// referenceNamespace derives stable ids for seeded rows, so every instance seeds the
// same zone and commodity ids.
var referenceNamespace = uuid.MustParse("5b0f4c1e-7d8a-4f57-9a43-2b1d6c3e8f10")

type zoneSeed struct {
	name     string
	province string
	rate     string
	border   bool
	lat, lon float64
}

var zoneSeeds = []zoneSeed{
	{"Kigali Central", "Kigali", "50.00", false, -1.9441, 30.0619},
	{"Kigali Nyarugenge", "Kigali", "50.00", false, -1.9500, 30.0588},
	{"Musanze", "Northern", "45.00", false, -1.4998, 29.6344},
	{"Rubavu", "Western", "44.00", false, -1.6794, 29.2663},
	{"Nyamagabe", "Southern", "42.00", false, -2.4781, 29.5016},
	{"Huye", "Southern", "43.00", false, -2.5967, 29.7394},
	{"Rwamagana", "Eastern", "41.00", false, -1.9487, 30.4347},
	{"Kayonza", "Eastern", "41.00", false, -1.9000, 30.5167},
	{"Rusizi", "Western", "46.00", true, -2.4847, 28.9075},
	{"Bugesera", "Eastern", "40.00", false, -2.2131, 30.1536},
	{"Nyanza", "Southern", "43.00", false, -2.3515, 29.7509},
	{"Gicumbi", "Northern", "45.00", false, -1.5768, 30.0675},
}

type commoditySeed struct {
	name       string
	code       string
	perishable bool
}

var commoditySeeds = []commoditySeed{
	{"Potatoes", "0701.90", true},
	{"Coffee", "0901.11", true},
	{"Tea", "0902.10", true},
	{"Maize", "1005.90", true},
	{"Rice", "1006.30", true},
	{"Beans", "0713.31", true},
	{"Bananas", "0803.90", true},
	{"Avocados", "0804.40", true},
	{"Steel Pipes", "7304.11", false},
	{"Electronics", "8471.30", false},
	{"Clothing / Textiles", "6109.10", false},
	{"Construction Materials", "6810.11", false},
	{"Beverages", "2202.10", false},
	{"Pharmaceuticals", "3004.90", false},
}

// ZoneID is the id the seed gives the zone with this name.
func ZoneID(name string) uuid.UUID {
	return uuid.NewSHA1(referenceNamespace, []byte("cargo/zone/"+name))
}

// CommodityID is the id the seed gives the commodity with this name.
func CommodityID(name string) uuid.UUID {
	return uuid.NewSHA1(referenceNamespace, []byte("cargo/commodity/"+name))
}

// SeedReferenceData inserts the national zone and commodity lists. Rows that already
// exist are left untouched, so running it on every start is safe.
func SeedReferenceData(ctx context.Context, db *gorm.DB) error {
	zones := make([]catalogrepo.ZoneDTO, 0, len(zoneSeeds))
	for _, z := range zoneSeeds {
		lat, lon := z.lat, z.lon
		zones = append(zones, catalogrepo.ZoneDTO{
			ID:            ZoneID(z.name),
			Name:          z.name,
			Province:      z.province,
			BaseRatePerKg: decimal.RequireFromString(z.rate),
			IsBorder:      z.border,
			RefLat:        &lat,
			RefLon:        &lon,
		})
	}

	commodities := make([]catalogrepo.CommodityDTO, 0, len(commoditySeeds))
	for _, c := range commoditySeeds {
		commodities = append(commodities, catalogrepo.CommodityDTO{
			ID:          CommodityID(c.name),
			Name:        c.name,
			CustomsCode: c.code,
			Perishable:  c.perishable,
		})
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&zones).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&commodities).Error
	})
}
