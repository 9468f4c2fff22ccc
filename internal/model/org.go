package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResearchTeam is a hired team that converts money into research points
// over time.
type ResearchTeam struct {
	ID              string
	OrgID           string
	Name            string
	CostPerMonthUSD decimal.Decimal
	PointsPerWeek   float64
	HiredAt         time.Time
}

// Corporation is the economic actor.
type Corporation struct {
	ID             string
	Name           string
	BalanceUSD     decimal.Decimal
	ResearchPoints float64
	LastSettledAt  time.Time

	Teams []ResearchTeam
}

// ResearchUnlock records a spent-research-points purchase.
type ResearchUnlock struct {
	OrgID      string
	TechID     string
	CostPts    float64
	UnlockedAt time.Time
}

// ProspectingResult is a per-corp record of a surface site's resource
// distribution, the prerequisite for mining that site.
type ProspectingResult struct {
	OrgID        string
	SiteID       string
	ResourceID   string
	MassFraction float64
	ProspectedAt time.Time
}

// LEOBoostLedgerEntry is an auditable record of a boost-to-LEO purchase.
type LEOBoostLedgerEntry struct {
	OrgID     string
	ItemID    string
	Quantity  float64
	CostUSD   decimal.Decimal
	BoostedAt time.Time
}
