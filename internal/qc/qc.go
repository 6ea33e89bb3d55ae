// Package qc defines the core domain types and static catalogs of the
// quality-control game.
package qc

import "time"

// Game constants. DailySalary and MinQuota feed day-end display figures only;
// the authoritative balance is adjusted by DailyCharges alone.
const (
	StartingMoney      = 2500.0
	DailySalary        = 150.0
	DailyCharges       = 400.0
	MinQuota           = 2000.0
	MaxDays            = 5
	ShiftDuration      = 8 * time.Hour
	InspectionBaseTime = 3000 * time.Millisecond
	MinInspectionTime  = 1500 * time.Millisecond
)

// ProductType identifies one of the four manufactured product families.
type ProductType string

const (
	ProductCable       ProductType = "cable"
	ProductBlade       ProductType = "blade"
	ProductConnector   ProductType = "connector"
	ProductTransformer ProductType = "transformer"
)

// ProductSpec is the static catalog entry for a product type.
type ProductSpec struct {
	Type            ProductType
	NameKey         string
	InspectionTime  time.Duration
	Value           float64
	BaseDefectCount int
}

// ProductCatalog lists the four product types in their fixed order.
// Per-day defect count is BaseDefectCount + day.
var ProductCatalog = []ProductSpec{
	{ProductCable, "screen.game.product.cable", 4000 * time.Millisecond, 80, 2},
	{ProductBlade, "screen.game.product.blade", 3500 * time.Millisecond, 100, 3},
	{ProductConnector, "screen.game.product.connector", 2500 * time.Millisecond, 60, 1},
	{ProductTransformer, "screen.game.product.transformer", 5000 * time.Millisecond, 120, 4},
}

// Severity is a defect's fixed severity tier.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DefectSpec is the static catalog entry for a defect category.
type DefectSpec struct {
	NameKey  string
	Severity Severity
	Value    float64
}

// DefectCatalog lists the six defect categories.
var DefectCatalog = []DefectSpec{
	{"defect.scratch", SeverityLow, 10},
	{"defect.wear", SeverityLow, 15},
	{"defect.crack", SeverityMedium, 50},
	{"defect.misalignment", SeverityMedium, 45},
	{"defect.corrosion", SeverityHigh, 100},
	{"defect.leak", SeverityHigh, 120},
}

// Defect is one ground-truth flaw on a product. Its existence is permanent;
// only Revealed flips, hidden → visible, never back.
type Defect struct {
	NameKey  string   `json:"nameKey"`
	Severity Severity `json:"severity"`
	Value    float64  `json:"value"`
	Revealed bool     `json:"revealed"`
}

// Product is one item on the day's inspection queue.
// Accepted stays nil until exactly one decision is recorded.
type Product struct {
	ID             string        `json:"id"`
	Type           ProductType   `json:"type"`
	NameKey        string        `json:"nameKey"`
	Value          float64       `json:"value"`
	InspectionTime time.Duration `json:"inspectionTime"`
	Defects        []Defect      `json:"defects"`
	Inspected      bool          `json:"inspected"`
	Accepted       *bool         `json:"accepted"`
}

// UpgradeKind identifies a purchasable piece of inspection equipment.
type UpgradeKind string

const (
	UpgradeMagnifier      UpgradeKind = "magnifier"
	UpgradeSpeedDetection UpgradeKind = "speedDetection"
	UpgradeCaliper        UpgradeKind = "caliper"
	UpgradeMultimeter     UpgradeKind = "multimeter"
	UpgradeUltrasound     UpgradeKind = "ultrasound"
)

// UpgradeCosts is the static shop price table. Only speedDetection and
// ultrasound feed the inspection-time formula; the other three are tracked
// but carry no wired timing effect.
var UpgradeCosts = map[UpgradeKind]float64{
	UpgradeMagnifier:      200,
	UpgradeSpeedDetection: 150,
	UpgradeCaliper:        100,
	UpgradeMultimeter:     120,
	UpgradeUltrasound:     180,
}

// Decision is the player's verdict on a product.
type Decision string

const (
	DecisionGood   Decision = "good"
	DecisionReject Decision = "reject"
	DecisionDoubt  Decision = "doubt"
)

// Stats accumulates per-day inspection accuracy. Accuracy is
// round(100*Correct/Inspected), 0 while Inspected is 0.
type Stats struct {
	Inspected int `json:"inspected"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Accuracy  int `json:"accuracy"`
}

// ScoreRecord is one finished game, as stored in the local history and
// posted to the leaderboard.
type ScoreRecord struct {
	ID           string  `json:"id,omitempty"`
	Date         string  `json:"date"`
	Day          int     `json:"day"`
	FinalBalance float64 `json:"finalBalance"`
	Accuracy     int     `json:"accuracy"`
	Victory      bool    `json:"victory"`
	Score        float64 `json:"score"`
}
