// Package ast declares the types used to represent syntax trees for hledger journal files.
//
// A journal is parsed into a Document: an ordered sequence of entries, each one
// being a transaction, a directive, a market price directive, a comment or a blank
// line. Order is significant because scoping directives such as "apply account"
// and "alias" affect the entries that follow them; resolving that scope is left
// to consumers of the tree.
//
// Every node is built once by the parser and never mutated afterwards. Numeric
// quantities are kept as the literal text found in the source so that accounting
// figures round-trip exactly.
package ast

// Entry is one top-level unit of a journal.
type Entry interface {
	Position() Position
	entry()
}

// Document is a parsed journal file.
type Document struct {
	Filename string
	Entries  []Entry
}

// Transactions returns the transactions of the document in source order.
func (d *Document) Transactions() []*Transaction {
	var txns []*Transaction
	for _, e := range d.Entries {
		if txn, ok := e.(*Transaction); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

// Directives returns the directives of the document in source order.
// Market price directives are not included, see Prices.
func (d *Document) Directives() []Directive {
	var dirs []Directive
	for _, e := range d.Entries {
		if dir, ok := e.(Directive); ok {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Prices returns the market price directives of the document in source order.
func (d *Document) Prices() []*PriceDirective {
	var prices []*PriceDirective
	for _, e := range d.Entries {
		if p, ok := e.(*PriceDirective); ok {
			prices = append(prices, p)
		}
	}
	return prices
}

// Includes returns the include directives of the document in source order.
// The paths are unresolved.
func (d *Document) Includes() []*IncludeDirective {
	var incs []*IncludeDirective
	for _, e := range d.Entries {
		if inc, ok := e.(*IncludeDirective); ok {
			incs = append(incs, inc)
		}
	}
	return incs
}

// Len returns the number of entries in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}
