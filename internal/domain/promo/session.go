package promo

import (
	"fmt"
	"sync"
)

// Exact messages surfaced to the client for each validation outcome.
const (
	msgInvalidCode = "Invalid promo code"
	msgExpired     = "This promo code has expired"
)

// ApplyResult is the structured outcome of applying a promo code. Validation
// failures are data, not errors; the caller decides how to surface them.
type ApplyResult struct {
	Valid    bool
	Message  string
	Discount float64
	Duration Duration
	Promo    *PromoCode
}

// Session holds the single active promo slot for one caller session.
// Last applied wins; there is no stacking. The slot is shared per-user
// server state, so access to it is synchronized.
type Session struct {
	catalog *Catalog

	mu     sync.RWMutex
	active *PromoCode
}

// NewSession creates a promo session over the given catalog.
func NewSession(catalog *Catalog) *Session {
	return &Session{catalog: catalog}
}

// Apply validates the code against the catalog and the target plan. On
// success it replaces any previously active promo with this one.
func (s *Session) Apply(code, plan string) ApplyResult {
	p, ok := s.catalog.Lookup(code)
	if !ok {
		return ApplyResult{Valid: false, Message: msgInvalidCode}
	}
	if !p.IsValid() {
		return ApplyResult{Valid: false, Message: msgExpired}
	}
	if !p.AppliesTo(plan) {
		return ApplyResult{
			Valid:   false,
			Message: fmt.Sprintf("This promo code is not valid for %s plan", plan),
		}
	}

	s.mu.Lock()
	s.active = p
	s.mu.Unlock()
	return ApplyResult{
		Valid:    true,
		Message:  fmt.Sprintf("%s applied successfully!", p.Label()),
		Discount: p.DiscountValue(),
		Duration: p.Duration(),
		Promo:    p,
	}
}

// Remove clears the active promo unconditionally.
func (s *Session) Remove() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// Active returns the currently applied promo, or nil.
func (s *Session) Active() *PromoCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// DiscountedPrice prices the original amount through the active promo.
// With no active promo the price passes through unchanged.
func (s *Session) DiscountedPrice(original float64) float64 {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if active == nil {
		return original
	}
	return active.DiscountedPrice(original)
}
