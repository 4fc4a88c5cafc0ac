package promo

import (
	"strings"
	"sync"
)

// Catalog is an explicitly constructed set of promo codes, uniquely keyed by
// upper-cased code. The engine only ever reads it; mutations (admin create,
// kill switch) replace entries wholesale.
type Catalog struct {
	mu    sync.RWMutex
	codes map[string]*PromoCode
}

// NewCatalog builds a catalog from the given entries. Duplicate codes are
// resolved last-wins.
func NewCatalog(entries ...*PromoCode) *Catalog {
	c := &Catalog{codes: make(map[string]*PromoCode, len(entries))}
	for _, e := range entries {
		c.codes[e.Code()] = e
	}
	return c
}

// Lookup case-folds the input to upper-case and returns the matching entry.
func (c *Catalog) Lookup(code string) (*PromoCode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.codes[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Put inserts or replaces an entry.
func (c *Catalog) Put(p *PromoCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[p.Code()] = p
}

// Disable flips the kill switch on an entry by replacing it with a disabled
// copy. Returns false when the code is unknown.
func (c *Catalog) Disable(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToUpper(strings.TrimSpace(code))
	p, ok := c.codes[key]
	if !ok {
		return false
	}
	c.codes[key] = p.Disabled()
	return true
}

// All returns a snapshot of every entry.
func (c *Catalog) All() []*PromoCode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*PromoCode, 0, len(c.codes))
	for _, p := range c.codes {
		out = append(out, p)
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.codes)
}

// DefaultEntries returns the promo codes the service ships with. Used to seed
// an empty catalog store on first boot.
func DefaultEntries() []*PromoCode {
	mk := func(code string, dt DiscountType, value float64, tiers []string, d Duration, dv int, rules string) *PromoCode {
		p, err := NewPromoCode(code, dt, value, tiers, d, dv, rules)
		if err != nil {
			panic(err)
		}
		return p
	}
	return []*PromoCode{
		mk("FREE100", DiscountTypeFree, 100, []string{TierAny}, DurationLifetime, 0,
			"Full free access for life. Granted to early supporters."),
		mk("EARLYBIRD50", DiscountTypePercentage, 50, []string{TierAny}, DurationMonths, 3,
			"50% off any plan for the first 3 months."),
		mk("NAPTIME30", DiscountTypePercentage, 30, []string{"Monthly", "Annual"}, DurationMonths, 1,
			"30% off Monthly and Annual plans for one month."),
		mk("SLEEPWELL20", DiscountTypeFixed, 20, []string{"Sleep Plan"}, DurationOneTime, 0,
			"$20 off the Sleep Plan, first payment only."),
		mk("FAMILY15", DiscountTypePercentage, 15, []string{"Family Plan"}, DurationMonths, 6,
			"15% off the Family Plan for 6 months."),
		mk("WELCOME10", DiscountTypeFixed, 10, []string{TierAny}, DurationOneTime, 0,
			"$10 welcome credit toward any plan, first payment only."),
		mk("MINDFUL25", DiscountTypePercentage, 25, []string{"Annual"}, DurationDays, 30,
			"25% off the Annual plan for 30 days."),
	}
}
