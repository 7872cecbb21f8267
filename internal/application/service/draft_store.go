package service

import (
	"strconv"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/enum"
	"github.com/sangkips/po-composer/pkg/money"
)

// DraftEvent is published to subscribers after every Draft Store operation
// that changes the draft.
type DraftEvent struct {
	Kind   enum.DraftEventKind `json:"kind"`
	Index  int                 `json:"index"` // affected item, -1 for header-level events
	Totals entity.Totals       `json:"totals"`
}

// DraftListener receives DraftEvents
type DraftListener func(DraftEvent)

type listenerEntry struct {
	id int
	fn DraftListener
}

// DraftStore holds the single authoritative Draft of a session.
// It has one owner and is not safe for concurrent use; Session serializes
// access to it.
type DraftStore struct {
	draft     entity.Draft
	defaults  entity.DraftDefaults
	totals    *entity.Totals
	listeners []listenerEntry
	nextID    int
}

// NewDraftStore creates a store holding a freshly initialized draft
func NewDraftStore(defaults entity.DraftDefaults) *DraftStore {
	s := &DraftStore{defaults: defaults}
	s.reset()
	return s
}

// Initialize resets the draft to one blank line item and default header values.
func (s *DraftStore) Initialize() {
	s.reset()
	s.notify(enum.DraftEventInitialized, -1)
}

// SetDefaults replaces the header values used by Initialize.
func (s *DraftStore) SetDefaults(defaults entity.DraftDefaults) {
	s.defaults = defaults
}

func (s *DraftStore) reset() {
	s.draft = entity.Draft{
		PONumber: s.defaults.PONumber,
		PODate:   s.defaults.PODate,
		TaxRate:  strconv.Itoa(money.DefaultTaxRate),
		Items:    []entity.LineItem{entity.NewLineItem()},
	}
	s.totals = nil
}

// AddLineItem appends a blank line item and returns its 1-based position.
func (s *DraftStore) AddLineItem() int {
	s.draft.Items = append(s.draft.Items, entity.NewLineItem())
	index := len(s.draft.Items) - 1
	s.changed(enum.DraftEventItemAdded, index)
	return index + 1
}

// RemoveLineItem removes the item at index. Out-of-range indexes are ignored.
func (s *DraftStore) RemoveLineItem(index int) bool {
	if !s.inRange(index) {
		return false
	}
	s.draft.Items = append(s.draft.Items[:index:index], s.draft.Items[index+1:]...)
	s.changed(enum.DraftEventItemRemoved, index)
	return true
}

// UpdateLineItem merges patch into the item at index. Quantity and unit
// price text is parsed here; unreadable or negative input becomes zero.
func (s *DraftStore) UpdateLineItem(index int, patch entity.LineItemPatch) bool {
	if !s.inRange(index) {
		return false
	}
	item := &s.draft.Items[index]
	if patch.ProductID != nil {
		item.ProductID = *patch.ProductID
	}
	if patch.ProductCode != nil {
		item.ProductCode = *patch.ProductCode
	}
	if patch.ProductName != nil {
		item.ProductName = *patch.ProductName
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = money.ParseAmount(*patch.Quantity)
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = money.ParseAmount(*patch.UnitPrice)
	}
	s.changed(enum.DraftEventItemUpdated, index)
	return true
}

// ApplyProduct copies a catalog product's code, name, description and
// default price into the item at index.
func (s *DraftStore) ApplyProduct(index int, product entity.ProductAutofill) bool {
	if !s.inRange(index) {
		return false
	}
	item := &s.draft.Items[index]
	item.ProductID = product.ProductID
	item.ProductCode = product.Code
	item.ProductName = product.Name
	item.Description = product.Description
	item.UnitPrice = money.NonNegative(product.DefaultPrice)
	s.changed(enum.DraftEventItemUpdated, index)
	return true
}

// SetHeader merges header field updates and reports whether anything
// changed. Subscribers hear only about real changes; totals are only
// invalidated when the tax rate changes.
func (s *DraftStore) SetHeader(patch entity.HeaderPatch) bool {
	d := &s.draft
	changed := false
	for _, f := range []struct {
		dst *string
		val *string
	}{
		{&d.PONumber, patch.PONumber},
		{&d.PODate, patch.PODate},
		{&d.CompanyTaxID, patch.CompanyTaxID},
		{&d.CommercialReg, patch.CommercialReg},
		{&d.SupplierID, patch.SupplierID},
		{&d.DeliveryPeriod, patch.DeliveryPeriod},
		{&d.DeliveryLocation, patch.DeliveryLocation},
		{&d.PaymentTerms, patch.PaymentTerms},
		{&d.Notes, patch.Notes},
	} {
		if f.val != nil && *f.val != *f.dst {
			*f.dst = *f.val
			changed = true
		}
	}
	if patch.TaxRate != nil && *patch.TaxRate != d.TaxRate {
		d.TaxRate = *patch.TaxRate
		s.totals = nil
		changed = true
	}
	if changed {
		s.notify(enum.DraftEventHeaderUpdated, -1)
	}
	return changed
}

// Snapshot returns a copy of the draft that later mutations cannot reach.
func (s *DraftStore) Snapshot() entity.Draft {
	return s.draft.Clone()
}

// Restore replaces the whole draft with d and recomputes totals.
func (s *DraftStore) Restore(d entity.Draft) {
	s.draft = d.Clone()
	for i := range s.draft.Items {
		item := &s.draft.Items[i]
		item.Quantity = money.NonNegative(item.Quantity)
		item.UnitPrice = money.NonNegative(item.UnitPrice)
	}
	s.totals = nil
	s.notify(enum.DraftEventRestored, -1)
}

// Totals returns the derived figures, computing them at most once per change.
func (s *DraftStore) Totals() entity.Totals {
	if s.totals == nil {
		t := ComputeTotals(s.draft)
		s.totals = &t
	}
	return *s.totals
}

// ItemCount returns the number of line items
func (s *DraftStore) ItemCount() int {
	return len(s.draft.Items)
}

// Subscribe registers l for change notifications and returns a function that
// removes it again.
func (s *DraftStore) Subscribe(l DraftListener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: l})
	return func() {
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *DraftStore) inRange(index int) bool {
	return index >= 0 && index < len(s.draft.Items)
}

func (s *DraftStore) changed(kind enum.DraftEventKind, index int) {
	s.totals = nil
	s.notify(kind, index)
}

func (s *DraftStore) notify(kind enum.DraftEventKind, index int) {
	if len(s.listeners) == 0 {
		return
	}
	ev := DraftEvent{Kind: kind, Index: index, Totals: s.Totals()}
	for _, e := range s.listeners {
		e.fn(ev)
	}
}
