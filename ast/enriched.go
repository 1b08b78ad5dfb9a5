package ast

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EnrichedDocument wraps a Document with pre-extracted semantic information.
type EnrichedDocument struct {
	*Document
	Accounts    map[string]bool // Set of all account names seen
	Commodities map[string]bool // Set of all commodity symbols seen
	Precision   map[string]int  // Largest number of decimal places used per commodity
}

// Enrich extracts accounts and commodities from a Document in a single pass.
// Account names come from postings and account directives; commodities from
// every amount, price and default commodity directive.
func (d *Document) Enrich() *EnrichedDocument {
	e := &EnrichedDocument{
		Document:    d,
		Accounts:    make(map[string]bool),
		Commodities: make(map[string]bool),
		Precision:   make(map[string]int),
	}

	for _, entry := range d.Entries {
		switch entry := entry.(type) {
		case *Transaction:
			for _, p := range entry.Postings {
				e.Accounts[p.Account.Name] = true
				e.addAmount(p.Amount)
				if p.Assertion != nil {
					e.addAmount(p.Assertion.Amount)
				}
			}
		case *AccountDirective:
			e.Accounts[entry.Name] = true
		case *PriceDirective:
			e.Commodities[entry.Commodity.Symbol] = true
			e.addAmount(entry.Price)
		case *DefaultCommodityDirective:
			e.addAmount(entry.Amount)
		}
	}

	return e
}

func (e *EnrichedDocument) addAmount(a *Amount) {
	if a == nil {
		return
	}
	if a.Commodity != nil {
		sym := a.Commodity.Symbol
		e.Commodities[sym] = true
		if p := a.Quantity.Precision(); p > e.Precision[sym] {
			e.Precision[sym] = p
		} else if _, ok := e.Precision[sym]; !ok {
			e.Precision[sym] = p
		}
	}
	if a.Price != nil {
		e.addAmount(a.Price.Amount)
	}
}

// AccountList returns all accounts as a sorted slice.
func (e *EnrichedDocument) AccountList() []string {
	return sortedKeys(e.Accounts)
}

// CommodityList returns all commodities as a sorted slice.
func (e *EnrichedDocument) CommodityList() []string {
	return sortedKeys(e.Commodities)
}

func sortedKeys(m map[string]bool) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
