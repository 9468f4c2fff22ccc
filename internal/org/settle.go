// Package org implements corporation-level economic state:
// balance and research-point settlement, research team hiring, tech
// unlocks, the LEO-boost ledger, and surface-site prospecting. Every
// operation that reads or changes a corporation settles the corp's
// accrued research on access first (Prospect does not load a corp), the
// same lazy-advancement shape fleet.SettleOnAccess and
// industry.SettleEquipment use for ships and equipment.
package org

import (
	"time"

	"github.com/shopspring/decimal"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
)

// secondsPerMonth and secondsPerWeek are the fixed conversion factors
// research-team accrual uses: cost_per_month_usd and
// points_per_week are both rates, prorated by elapsed real seconds
// (mapped onto game-seconds via the world clock, like every other
// settle-on-access computation).
const (
	secondsPerMonth = 30 * 24 * 3600.0
	secondsPerWeek  = 7 * 24 * 3600.0
)

// Settle applies accrued research-team cost/output since LastSettledAt:
// each active team debits cost_per_month_usd * (elapsed/month) from the
// balance and credits points_per_week * (elapsed/week) to research
// points. c is updated in place.
func Settle(c *model.Corporation, now time.Time) {
	if c.LastSettledAt.IsZero() {
		c.LastSettledAt = now
		return
	}
	elapsedS := now.Sub(c.LastSettledAt).Seconds()
	if elapsedS <= 0 {
		return
	}

	for _, team := range c.Teams {
		monthFrac := decimal.NewFromFloat(elapsedS / secondsPerMonth)
		debit := team.CostPerMonthUSD.Mul(monthFrac)
		c.BalanceUSD = c.BalanceUSD.Sub(debit)
		c.ResearchPoints += team.PointsPerWeek * (elapsedS / secondsPerWeek)
	}
	c.LastSettledAt = now
}

// GetCorp fetches a corporation, settles it, and persists the
// settlement so subsequent reads see the already-accrued state.
func GetCorp(w *engine.World, orgID string, now time.Time) (model.Corporation, error) {
	c, err := w.Store.GetCorp(orgID)
	if err != nil {
		return model.Corporation{}, apperrors.NotFoundf("corporation %q not found", orgID)
	}
	Settle(&c, now)
	if err := w.Store.SaveCorp(c); err != nil {
		return model.Corporation{}, err
	}
	return c, nil
}

// HireTeam settles the org, then adds a new research team at the given
// rates.
func HireTeam(w *engine.World, orgID, name string, costPerMonthUSD decimal.Decimal, pointsPerWeek float64, now time.Time) (model.ResearchTeam, error) {
	if name == "" {
		return model.ResearchTeam{}, apperrors.Validationf("team name must not be empty")
	}
	if costPerMonthUSD.IsNegative() || pointsPerWeek < 0 {
		return model.ResearchTeam{}, apperrors.Validationf("team cost and output must be non-negative")
	}

	c, err := GetCorp(w, orgID, now)
	if err != nil {
		return model.ResearchTeam{}, err
	}

	team := model.ResearchTeam{
		ID:              w.Store.NewTeamID(),
		OrgID:           c.ID,
		Name:            name,
		CostPerMonthUSD: costPerMonthUSD,
		PointsPerWeek:   pointsPerWeek,
		HiredAt:         now,
	}
	if err := w.Store.SaveTeam(team); err != nil {
		return model.ResearchTeam{}, err
	}
	return team, nil
}

// FireTeam settles the org, then removes a research team.
func FireTeam(w *engine.World, orgID, teamID string, now time.Time) error {
	if _, err := GetCorp(w, orgID, now); err != nil {
		return err
	}
	return w.Store.DeleteTeam(orgID, teamID)
}
