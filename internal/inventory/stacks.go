// Package inventory implements the location-inventory stack
// operations: resource stacks keyed by resource id, part stacks keyed
// by a content-hash fingerprint so identical parts coalesce, and the
// transfer operation moving stacks between owners and locations.
package inventory

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/catalog"
	"orrery/internal/model"
	"orrery/internal/store"
)

// UpsertResource applies a signed delta to a (location, owner, resource)
// stack: positive adds, negative consumes. The volume delta is derived
// from the mass delta and the resource's known density; unknown
// resources get a zero volume delta.
func UpsertResource(st store.Store, reg *catalog.Registry, locationID, ownerCorpID, resourceID string, deltaMassKg float64, now time.Time) error {
	if resourceID == "" {
		return apperrors.Validationf("resource id must not be empty")
	}

	existing, ok, err := st.GetStack(locationID, ownerCorpID, model.StackResource, resourceID)
	if err != nil {
		return err
	}
	if !ok {
		existing = model.InventoryStack{
			LocationID: locationID, OwnerCorpID: ownerCorpID,
			Type: model.StackResource, StackKey: resourceID,
			ItemID: resourceID, Name: resourceID,
			Payload: map[string]interface{}{"resource_id": resourceID},
		}
	}

	newMass := existing.MassKg + deltaMassKg
	if newMass < 0 {
		return apperrors.PreconditionFailedf("insufficient %s at %s: have %.3f kg, need %.3f kg",
			resourceID, locationID, existing.MassKg, -deltaMassKg)
	}

	density := reg.DensityOf(resourceID)
	if density > 0 {
		existing.VolumeM3 += deltaMassKg / density
		if existing.VolumeM3 < 0 {
			existing.VolumeM3 = 0
		}
	}
	existing.MassKg = newMass
	existing.Quantity = newMass
	existing.UpdatedAt = now

	if existing.Empty() {
		return st.DeleteStack(locationID, ownerCorpID, model.StackResource, resourceID)
	}
	return st.SaveStack(existing)
}

// UpsertPart adds (positive count) or removes (negative count) part
// stock at a location. The stack key is the part's content fingerprint
// so identical parts coalesce into one row with an integer count.
func UpsertPart(st store.Store, locationID, ownerCorpID string, part model.Part, count int, now time.Time) error {
	if count == 0 {
		return nil
	}
	key := Fingerprint(part)

	existing, ok, err := st.GetStack(locationID, ownerCorpID, model.StackPart, key)
	if err != nil {
		return err
	}
	if !ok {
		existing = model.InventoryStack{
			LocationID: locationID, OwnerCorpID: ownerCorpID,
			Type: model.StackPart, StackKey: key,
			ItemID: part.ItemID, Name: part.Name,
			MassKg: part.MassKg, Payload: part,
		}
	}

	newQty := existing.Quantity + float64(count)
	if newQty < 0 {
		return apperrors.PreconditionFailedf("insufficient %s at %s: have %d, need %d",
			part.ItemID, locationID, int(existing.Quantity), -count)
	}
	existing.Quantity = newQty
	existing.MassKg = part.MassKg * newQty
	existing.UpdatedAt = now

	if existing.Empty() {
		return st.DeleteStack(locationID, ownerCorpID, model.StackPart, key)
	}
	return st.SaveStack(existing)
}

// Transfer moves an amount of a resource or a count of parts from one
// (location, owner) pair to another. key and dstKey are
// resource ids for resource stacks, or a part fingerprint for part
// stacks (dstKey defaults to key when empty).
func Transfer(st store.Store, kind model.StackType, srcLoc, srcOwner, key string, dstLoc, dstOwner, dstKey string, amount float64, now time.Time) error {
	if dstKey == "" {
		dstKey = key
	}
	srcStack, ok, err := st.GetStack(srcLoc, srcOwner, kind, key)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFoundf("no stack %s at %s owned by %s", key, srcLoc, srcOwner)
	}
	if amount <= 0 || amount > srcStack.Quantity {
		return apperrors.PreconditionFailedf("cannot move %.3f of %s: only %.3f available", amount, key, srcStack.Quantity)
	}

	frac := amount / srcStack.Quantity
	movedMassKg := srcStack.MassKg * frac
	movedVolumeM3 := srcStack.VolumeM3 * frac

	srcStack.Quantity -= amount
	srcStack.MassKg -= movedMassKg
	srcStack.VolumeM3 -= movedVolumeM3
	srcStack.UpdatedAt = now

	dstStack, ok, err := st.GetStack(dstLoc, dstOwner, kind, dstKey)
	if err != nil {
		return err
	}
	if !ok {
		dstStack = model.InventoryStack{
			LocationID: dstLoc, OwnerCorpID: dstOwner, Type: kind, StackKey: dstKey,
			ItemID: srcStack.ItemID, Name: srcStack.Name, Payload: srcStack.Payload,
		}
	}
	dstStack.Quantity += amount
	dstStack.MassKg += movedMassKg
	dstStack.VolumeM3 += movedVolumeM3
	dstStack.UpdatedAt = now

	if srcStack.Empty() {
		if err := st.DeleteStack(srcLoc, srcOwner, kind, key); err != nil {
			return err
		}
	} else if err := st.SaveStack(srcStack); err != nil {
		return err
	}
	return st.SaveStack(dstStack)
}
