package org

import (
	"time"

	"github.com/shopspring/decimal"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
)

// BoostToLEO settles the org, debits the balance for a cargo launch to
// LEO, and appends an auditable ledger entry. Rejects if the corp
// cannot afford it.
func BoostToLEO(w *engine.World, orgID, itemID string, qty float64, costUSD decimal.Decimal, now time.Time) (model.LEOBoostLedgerEntry, error) {
	if itemID == "" {
		return model.LEOBoostLedgerEntry{}, apperrors.Validationf("item id must not be empty")
	}
	if qty <= 0 {
		return model.LEOBoostLedgerEntry{}, apperrors.Validationf("quantity must be positive")
	}
	if costUSD.IsNegative() {
		return model.LEOBoostLedgerEntry{}, apperrors.Validationf("cost must be non-negative")
	}

	c, err := GetCorp(w, orgID, now)
	if err != nil {
		return model.LEOBoostLedgerEntry{}, err
	}
	if costUSD.GreaterThan(c.BalanceUSD) {
		return model.LEOBoostLedgerEntry{}, apperrors.PreconditionFailedf("insufficient funds: have %s, need %s", c.BalanceUSD.String(), costUSD.String())
	}

	c.BalanceUSD = c.BalanceUSD.Sub(costUSD)
	if err := w.Store.SaveCorp(c); err != nil {
		return model.LEOBoostLedgerEntry{}, err
	}

	entry := model.LEOBoostLedgerEntry{
		OrgID:     orgID,
		ItemID:    itemID,
		Quantity:  qty,
		CostUSD:   costUSD,
		BoostedAt: now,
	}
	if err := w.Store.AppendLEOBoost(entry); err != nil {
		return model.LEOBoostLedgerEntry{}, err
	}
	return entry, nil
}
