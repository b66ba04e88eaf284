package service

import (
	expdomain "github.com/platefull/weekplan/internal/expectation/domain"
	orderdomain "github.com/platefull/weekplan/internal/orderstore/domain"
	refdomain "github.com/platefull/weekplan/internal/reference/domain"
)

const dateKeyLayout = "2006-01-02"

// existingEntry wraps a persisted order with its normalized match keys.
// Each entry is consumed by at most one expectation.
type existingEntry struct {
	order       *orderdomain.Order
	clientID    string
	serviceType string
	vendorID    string
	// category is empty when the order carries no label and no items
	// to derive one from; such entries never match exactly but remain
	// available to the slot pass.
	category string
	dateKey  string
	box      bool
	consumed bool
}

// sameService tolerates persisted rows whose service type column was
// never written.
func (x *existingEntry) sameService(st string) bool {
	return x.serviceType == "" || st == "" || x.serviceType == st
}

func (x *existingEntry) sameVendor(id string) bool {
	return x.vendorID == "" || id == "" || x.vendorID == id
}

// matchPair records which persisted order satisfied an expectation.
type matchPair struct {
	expected expdomain.ExpectedOrder
	entry    *existingEntry
}

type matchOutcome struct {
	missing []expdomain.ExpectedOrder
	matched []matchPair
}

// match runs the two pass comparison.
//
// Pass one is strict: same client, same vendor, same service type and
// same delivery date, plus the canonical category for category keyed
// expectations. Box expectations carry no date and match on client
// alone. A non-category expectation may drift to another date of the
// same week for the same client and vendor, operators move deliveries
// by a day without that being a missing order.
//
// Pass two relaxes the category only: an order in the right client,
// date and vendor slot counts even when its category label disagrees.
func match(
	expected []expdomain.ExpectedOrder,
	existing []orderdomain.Order,
	dirs *refdomain.Directories,
	rollup map[string]string,
) matchOutcome {
	entries := make([]*existingEntry, 0, len(existing))
	for i := range existing {
		entries = append(entries, newEntry(&existing[i], dirs, rollup))
	}

	var out matchOutcome
	var unmatched []expdomain.ExpectedOrder
	for _, e := range expected {
		if hit := matchExact(e, entries); hit != nil {
			out.matched = append(out.matched, matchPair{expected: e, entry: hit})
		} else {
			unmatched = append(unmatched, e)
		}
	}

	for _, e := range unmatched {
		if hit := matchSlot(e, entries); hit != nil {
			out.matched = append(out.matched, matchPair{expected: e, entry: hit})
		} else {
			out.missing = append(out.missing, e)
		}
	}
	return out
}

func newEntry(o *orderdomain.Order, dirs *refdomain.Directories, rollup map[string]string) *existingEntry {
	entry := &existingEntry{
		order:       o,
		clientID:    effectiveID(rollup, o.ClientID),
		serviceType: o.ServiceType,
		vendorID:    o.VendorID,
		category:    persistedCategory(o, dirs),
	}
	if o.DeliveryDate != nil {
		entry.dateKey = o.DeliveryDate.Format(dateKeyLayout)
	}
	entry.box = o.ServiceType == "Boxes" || entry.category == expdomain.BoxesCategory
	return entry
}

// persistedCategory normalizes the stored meal type label. Orders
// written by older tooling left the label empty or used a raw key, so
// the items themselves are the fallback source of truth. Items that
// resolve nowhere leave the order in the default category; an order
// with no items at all stays unclassified.
func persistedCategory(o *orderdomain.Order, dirs *refdomain.Directories) string {
	if o.Category != "" {
		return dirs.CanonicalCategory(o.Category)
	}
	if len(o.Items) == 0 {
		return ""
	}
	for _, item := range o.Items {
		if key, ok := dirs.CategoryForItem(item.ItemID); ok {
			return key
		}
	}
	return refdomain.DefaultCategoryKey
}

func matchExact(e expdomain.ExpectedOrder, entries []*existingEntry) *existingEntry {
	if e.Category == expdomain.BoxesCategory {
		return consume(entries, func(x *existingEntry) bool {
			return x.box && x.clientID == e.ClientID
		})
	}

	st := string(e.ServiceType)
	dateKey := e.DeliveryDate.Format(dateKeyLayout)

	if e.Category == expdomain.AnyCategory {
		if hit := consume(entries, func(x *existingEntry) bool {
			return !x.box && x.clientID == e.ClientID && x.sameService(st) &&
				x.sameVendor(e.VendorID) && x.dateKey == dateKey
		}); hit != nil {
			return hit
		}
		// Same-week drift, still pinned to the vendor.
		return consume(entries, func(x *existingEntry) bool {
			return !x.box && x.clientID == e.ClientID && x.sameService(st) &&
				x.sameVendor(e.VendorID) && x.dateKey != ""
		})
	}

	return consume(entries, func(x *existingEntry) bool {
		return !x.box && x.clientID == e.ClientID && x.sameService(st) &&
			x.sameVendor(e.VendorID) && x.dateKey == dateKey && x.category == e.Category
	})
}

// matchSlot applies to category keyed expectations only: any remaining
// order in the same client, date and vendor slot satisfies it, however
// its label reads.
func matchSlot(e expdomain.ExpectedOrder, entries []*existingEntry) *existingEntry {
	if e.Category == expdomain.BoxesCategory || e.Category == expdomain.AnyCategory {
		return nil
	}

	st := string(e.ServiceType)
	dateKey := e.DeliveryDate.Format(dateKeyLayout)
	return consume(entries, func(x *existingEntry) bool {
		return !x.box && x.clientID == e.ClientID && x.sameService(st) &&
			x.sameVendor(e.VendorID) && x.dateKey == dateKey
	})
}

func consume(entries []*existingEntry, fits func(*existingEntry) bool) *existingEntry {
	for _, x := range entries {
		if x.consumed || !fits(x) {
			continue
		}
		x.consumed = true
		return x
	}
	return nil
}
