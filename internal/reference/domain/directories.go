package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCategoryKey absorbs legacy rows whose category cannot be resolved.
const DefaultCategoryKey = "Lunch"

type CatalogSource string

const (
	CatalogMeal CatalogSource = "meal"
	CatalogMenu CatalogSource = "menu"
)

// ResolvedItem is a catalog hit from either parallel catalog, with the unit
// price already picked from the legacy price columns.
type ResolvedItem struct {
	ID         string
	Source     CatalogSource
	CategoryID string
	UnitPrice  decimal.Decimal
	Active     bool
}

// Directories is an immutable lookup snapshot over the reference tables,
// built once per run and shared read-only.
type Directories struct {
	vendors  map[string]Vendor
	statuses map[string]ClientStatus

	mealItems map[string]MealItem
	menuItems map[string]MenuItem

	// canonicalByKey maps both category keys and display names (from both
	// category tables) to the canonical category key.
	canonicalByKey  map[string]string
	categoryKeyByID map[string]string
	activeKeys      map[string]struct{}
}

func NewDirectories(
	vendors []Vendor,
	mealCategories []MealCategory,
	itemCategories []ItemCategory,
	mealItems []MealItem,
	menuItems []MenuItem,
	statuses []ClientStatus,
) *Directories {
	d := &Directories{
		vendors:         make(map[string]Vendor, len(vendors)),
		statuses:        make(map[string]ClientStatus, len(statuses)),
		mealItems:       make(map[string]MealItem, len(mealItems)),
		menuItems:       make(map[string]MenuItem, len(menuItems)),
		canonicalByKey:  make(map[string]string),
		categoryKeyByID: make(map[string]string),
		activeKeys:      make(map[string]struct{}),
	}

	for _, v := range vendors {
		d.vendors[v.ID] = v
	}
	for _, s := range statuses {
		d.statuses[s.ID] = s
	}
	for _, i := range mealItems {
		d.mealItems[i.ID] = i
		d.mealItems[strings.ToLower(i.ID)] = i
	}
	for _, i := range menuItems {
		d.menuItems[i.ID] = i
		d.menuItems[strings.ToLower(i.ID)] = i
	}

	for _, c := range mealCategories {
		key := c.CategoryKey
		if key == "" {
			key = DefaultCategoryKey
		}
		d.canonicalByKey[key] = key
		if c.Name != "" {
			d.canonicalByKey[c.Name] = key
		}
		d.categoryKeyByID[c.ID] = key
		if c.Active == nil || *c.Active {
			d.activeKeys[key] = struct{}{}
		}
	}
	for _, c := range itemCategories {
		if c.CategoryKey != "" {
			d.canonicalByKey[c.CategoryKey] = c.CategoryKey
			if c.Active == nil || *c.Active {
				d.activeKeys[c.CategoryKey] = struct{}{}
			}
		}
		key := c.CategoryKey
		if key == "" {
			key = DefaultCategoryKey
		}
		if c.Name != "" {
			d.canonicalByKey[c.Name] = key
		}
		d.categoryKeyByID[c.ID] = key
	}

	// Both tables empty of active rows: treat every known category as active
	// rather than suppressing the whole program.
	if len(d.activeKeys) == 0 {
		for _, key := range d.canonicalByKey {
			d.activeKeys[key] = struct{}{}
		}
	}

	return d
}

// Vendor looks up a vendor by id.
func (d *Directories) Vendor(id string) (Vendor, bool) {
	v, ok := d.vendors[id]
	return v, ok
}

// VendorActive reports whether the vendor exists and is active.
func (d *Directories) VendorActive(id string) bool {
	v, ok := d.vendors[id]
	return ok && v.Active
}

// Status looks up a client status by id.
func (d *Directories) Status(id string) (ClientStatus, bool) {
	s, ok := d.statuses[id]
	return s, ok
}

// ResolveItem finds an item id in the meal catalog first, then the menu
// catalog, falling back to a case-insensitive match in each.
func (d *Directories) ResolveItem(id string) (ResolvedItem, bool) {
	if m, ok := d.lookupMeal(id); ok {
		return ResolvedItem{
			ID:         m.ID,
			Source:     CatalogMeal,
			CategoryID: m.CategoryID,
			UnitPrice:  m.UnitPrice,
			Active:     m.Active,
		}, true
	}
	if m, ok := d.lookupMenu(id); ok {
		price := decimal.Zero
		if m.UnitPrice != nil {
			price = *m.UnitPrice
		} else if m.Value != nil {
			price = *m.Value
		}
		return ResolvedItem{
			ID:         m.ID,
			Source:     CatalogMenu,
			CategoryID: m.CategoryID,
			UnitPrice:  price,
			Active:     m.Active,
		}, true
	}
	return ResolvedItem{}, false
}

func (d *Directories) lookupMeal(id string) (MealItem, bool) {
	if m, ok := d.mealItems[id]; ok {
		return m, true
	}
	m, ok := d.mealItems[strings.ToLower(id)]
	return m, ok
}

func (d *Directories) lookupMenu(id string) (MenuItem, bool) {
	if m, ok := d.menuItems[id]; ok {
		return m, true
	}
	m, ok := d.menuItems[strings.ToLower(id)]
	return m, ok
}

// CanonicalCategory normalizes a raw configuration category key: direct
// lookup first, then the prefix before the first underscore.
func (d *Directories) CanonicalCategory(rawKey string) string {
	if key, ok := d.canonicalByKey[rawKey]; ok {
		return key
	}
	prefix := categoryKeyPrefix(rawKey)
	if key, ok := d.canonicalByKey[prefix]; ok {
		return key
	}
	return prefix
}

// CategoryForItem derives the canonical category satisfied by a catalog item.
// Items that resolve but whose category row is unknown land in the default
// category; items absent from both catalogs derive nothing.
func (d *Directories) CategoryForItem(itemID string) (string, bool) {
	item, ok := d.ResolveItem(itemID)
	if !ok {
		return "", false
	}
	if key, ok := d.categoryKeyByID[item.CategoryID]; ok {
		return key, true
	}
	return DefaultCategoryKey, true
}

// CategoryActive reports whether the canonical category is active per the
// unioned category tables.
func (d *Directories) CategoryActive(key string) bool {
	_, ok := d.activeKeys[key]
	return ok
}

// ActiveCategoryKeys lists the active canonical categories, sorted. Display
// surfaces filter on this; derivation does not.
func (d *Directories) ActiveCategoryKeys() []string {
	keys := make([]string, 0, len(d.activeKeys))
	for key := range d.activeKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func categoryKeyPrefix(raw string) string {
	if idx := strings.Index(raw, "_"); idx > 0 {
		return raw[:idx]
	}
	return raw
}
