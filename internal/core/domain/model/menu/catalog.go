package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound      = errors.New("menu item not found")
	ErrItemUnavailable   = errors.New("menu item is unavailable")
	ErrSizeNotFound      = errors.New("size not found")
	ErrSizeUnavailable   = errors.New("size is unavailable")
	ErrOptionNotFound    = errors.New("option not found")
	ErrOptionUnavailable = errors.New("option is unavailable")
)

// Size is a priced variant of an item. When an item has sizes its own
// Price is ignored.
type Size struct {
	Name      string
	Price     decimal.Decimal
	Available bool
}

// Option is an add-on that can be selected for an item.
type Option struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Available bool
	// PerLine options are charged once per line rather than per unit.
	PerLine bool
}

// Item is a sellable menu entry.
type Item struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Available bool
	Sizes     []Size
	Options   []Option
}

// UnitPrice returns the current price of the item in the given size.
// Items without sizes accept only the empty size.
func (i Item) UnitPrice(size string) (decimal.Decimal, error) {
	if !i.Available {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrItemUnavailable, i.ID)
	}

	size = strings.TrimSpace(size)
	if len(i.Sizes) == 0 {
		if size != "" {
			return decimal.Zero, fmt.Errorf("%w: %s has no size %q", ErrSizeNotFound, i.ID, size)
		}
		return i.Price, nil
	}

	for _, s := range i.Sizes {
		if !strings.EqualFold(s.Name, size) {
			continue
		}
		if !s.Available {
			return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrSizeUnavailable, i.ID, s.Name)
		}
		return s.Price, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s has no size %q", ErrSizeNotFound, i.ID, size)
}

// Option looks up an available option of the item.
func (i Item) Option(id string) (Option, error) {
	for _, o := range i.Options {
		if o.ID != id {
			continue
		}
		if !o.Available {
			return Option{}, fmt.Errorf("%w: %s/%s", ErrOptionUnavailable, i.ID, id)
		}
		return o, nil
	}
	return Option{}, fmt.Errorf("%w: %s/%s", ErrOptionNotFound, i.ID, id)
}

// Catalog is an immutable snapshot of the menu.
type Catalog struct {
	items    map[string]Item
	loadedAt time.Time
}

// NewCatalog indexes items by id. Duplicate or empty ids and negative prices
// are rejected.
func NewCatalog(items []Item, loadedAt time.Time) (*Catalog, error) {
	index := make(map[string]Item, len(items))
	var problems []error

	for _, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			problems = append(problems, errs.NewValueIsRequiredError("menu item id"))
			continue
		}
		if _, dup := index[id]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("menu item id", fmt.Errorf("%q is duplicated", id)))
			continue
		}
		if err := validatePrices(it); err != nil {
			problems = append(problems, err)
			continue
		}
		it.ID = id
		index[id] = it
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return &Catalog{items: index, loadedAt: loadedAt}, nil
}

// Item returns the item with the given id, or ErrItemNotFound.
func (c *Catalog) Item(id string) (Item, error) {
	it, ok := c.items[strings.TrimSpace(id)]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return it, nil
}

// Items returns all items ordered by id.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// LoadedAt is when the snapshot was taken.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// IsUnavailable reports whether err means the cart references something the
// catalog no longer sells.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrItemUnavailable) ||
		errors.Is(err, ErrSizeNotFound) ||
		errors.Is(err, ErrSizeUnavailable) ||
		errors.Is(err, ErrOptionNotFound) ||
		errors.Is(err, ErrOptionUnavailable)
}

func validatePrices(it Item) error {
	if it.Price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("menu item price", fmt.Errorf("%s: %s is negative", it.ID, it.Price))
	}
	for _, s := range it.Sizes {
		if s.Price.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause("size price", fmt.Errorf("%s/%s: %s is negative", it.ID, s.Name, s.Price))
		}
	}
	for _, o := range it.Options {
		if o.Price.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause("option price", fmt.Errorf("%s/%s: %s is negative", it.ID, o.ID, o.Price))
		}
	}
	return nil
}
