package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ServiceType tags the shape of a client's order configuration.
type ServiceType string

const (
	ServiceFood   ServiceType = "Food"
	ServiceMeal   ServiceType = "Meal"
	ServiceBoxes  ServiceType = "Boxes"
	ServiceCustom ServiceType = "Custom"
)

// VendorSelection is one vendor's item quantities within a
// configuration. Quantities are always positive after normalization.
type VendorSelection struct {
	VendorID  string
	Items     map[string]int
	ItemNotes map[string]string
}

// DaySelection holds the vendor selections configured for one
// delivery day.
type DaySelection struct {
	VendorSelections []VendorSelection
}

// BoxConfig is the single standing box order of a Boxes client.
type BoxConfig struct {
	VendorID  string
	BoxTypeID string
	Quantity  int
}

// OrderConfig is the normalized form of a stored configuration.
// Exactly one of the shape fields is populated, matching ServiceType:
// CategorySelections for meal plans keyed by category, DayOrders for
// day-by-day plans, VendorSelections for flat vendor plans and Box for
// box plans. Raw column payloads never leave this package.
type OrderConfig struct {
	ServiceType ServiceType

	// Notes and CaseID ride along onto every expected order derived
	// from this configuration.
	Notes  string
	CaseID string

	CategorySelections map[string]VendorSelection
	DayOrders          map[string]DaySelection
	VendorSelections   []VendorSelection
	Box                *BoxConfig
}

// Empty reports whether the configuration carries no deliverable
// selections at all.
func (c *OrderConfig) Empty() bool {
	return len(c.CategorySelections) == 0 &&
		len(c.DayOrders) == 0 &&
		len(c.VendorSelections) == 0 &&
		c.Box == nil
}

// NormalizeJSON decodes a raw configuration column and normalizes it.
func NormalizeJSON(raw datatypes.JSON) (*OrderConfig, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return Normalize(payload)
}

// Normalize resolves every legacy field alias of the stored
// configuration shapes in one pass and returns the canonical form.
// Configurations with no recognizable selections yield ok=false.
func Normalize(payload map[string]any) (*OrderConfig, bool) {
	if len(payload) == 0 {
		return nil, false
	}

	cfg := &OrderConfig{
		ServiceType: serviceType(payload),
		Notes:       pickString(payload, "notes"),
		CaseID:      pickString(payload, "caseId", "case_id"),
	}

	if selections := pickMap(payload, "mealSelections", "meal_selections"); selections != nil {
		cfg.CategorySelections = make(map[string]VendorSelection, len(selections))
		for category, v := range selections {
			group, ok := v.(map[string]any)
			if !ok {
				continue
			}
			sel := vendorSelection(group)
			if sel.VendorID == "" && len(sel.Items) == 0 {
				continue
			}
			cfg.CategorySelections[category] = sel
		}
	}

	if days := pickMap(payload, "deliveryDayOrders", "delivery_day_orders"); days != nil {
		cfg.DayOrders = make(map[string]DaySelection, len(days))
		for day, v := range days {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			sels := vendorSelections(pickSlice(entry, "vendorSelections", "vendor_selections"))
			if len(sels) == 0 {
				// Some rows store a single selection inline.
				if sel := vendorSelection(entry); sel.VendorID != "" || len(sel.Items) > 0 {
					sels = append(sels, sel)
				}
			}
			if len(sels) == 0 {
				continue
			}
			cfg.DayOrders[day] = DaySelection{VendorSelections: sels}
		}
	}

	cfg.VendorSelections = vendorSelections(pickSlice(payload, "vendorSelections", "vendor_selections"))

	if cfg.ServiceType == ServiceBoxes {
		cfg.Box = boxConfig(payload)
	}

	if cfg.Empty() {
		return nil, false
	}
	return cfg, true
}

func serviceType(payload map[string]any) ServiceType {
	switch pickString(payload, "serviceType", "service_type") {
	case "Food":
		return ServiceFood
	case "Boxes":
		return ServiceBoxes
	case "Custom":
		return ServiceCustom
	default:
		return ServiceMeal
	}
}

func vendorSelections(rows []any) []VendorSelection {
	if len(rows) == 0 {
		return nil
	}
	out := make([]VendorSelection, 0, len(rows))
	for _, v := range rows {
		row, ok := v.(map[string]any)
		if !ok {
			continue
		}
		sel := vendorSelection(row)
		if sel.VendorID == "" && len(sel.Items) == 0 {
			continue
		}
		out = append(out, sel)
	}
	return out
}

func vendorSelection(row map[string]any) VendorSelection {
	return VendorSelection{
		VendorID:  pickString(row, "vendorId", "vendor_id"),
		Items:     itemQuantities(row),
		ItemNotes: itemNotes(row),
	}
}

func itemNotes(row map[string]any) map[string]string {
	raw := pickMap(row, "itemNotes", "item_notes")
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for id, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out[id] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// itemQuantities accepts every historical item payload shape: a map of
// item id to quantity, a map of item id to an object carrying the
// quantity, or an array of row objects naming the item id.
func itemQuantities(row map[string]any) map[string]int {
	for _, key := range []string{"items", "itemQuantities", "menu_items", "item_quantities"} {
		raw, ok := row[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case map[string]any:
			out := make(map[string]int, len(v))
			for id, q := range v {
				if n := quantityOf(q); n > 0 {
					out[id] = n
				}
			}
			if len(out) > 0 {
				return out
			}
		case []any:
			out := make(map[string]int, len(v))
			for _, e := range v {
				entry, ok := e.(map[string]any)
				if !ok {
					continue
				}
				id := pickString(entry, "menu_item_id", "menuItemId", "itemId", "item_id", "id")
				if id == "" {
					continue
				}
				n := quantityOf(entry["quantity"])
				if n == 0 {
					n = quantityOf(entry["qty"])
				}
				if n > 0 {
					out[id] += n
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func boxConfig(payload map[string]any) *BoxConfig {
	box := BoxConfig{
		VendorID:  pickString(payload, "vendorId", "vendor_id"),
		BoxTypeID: pickString(payload, "boxTypeId", "box_type_id"),
		Quantity:  quantityOf(payload["quantity"]),
	}

	if box.BoxTypeID == "" {
		for _, v := range pickSlice(payload, "boxOrders", "box_orders") {
			row, ok := v.(map[string]any)
			if !ok {
				continue
			}
			box.BoxTypeID = pickString(row, "boxTypeId", "box_type_id", "id")
			if box.VendorID == "" {
				box.VendorID = pickString(row, "vendorId", "vendor_id")
			}
			if n := quantityOf(row["quantity"]); n > 0 {
				box.Quantity = n
			}
			if box.BoxTypeID != "" {
				break
			}
		}
	}

	if box.Quantity <= 0 {
		box.Quantity = 1
	}
	if box.VendorID == "" && box.BoxTypeID == "" {
		return nil
	}
	return &box
}

func quantityOf(v any) int {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n)
		}
	case int:
		if n > 0 {
			return n
		}
	case string:
		total := 0
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0
			}
			total = total*10 + int(r-'0')
		}
		return total
	case map[string]any:
		if q := quantityOf(n["quantity"]); q > 0 {
			return q
		}
		return quantityOf(n["qty"])
	}
	return 0
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func pickMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok && len(v) > 0 {
			return v
		}
	}
	return nil
}

func pickSlice(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok && len(v) > 0 {
			return v
		}
	}
	return nil
}
