// File: merge.go
// Title: Grammar Aggregation
// Description: Merges grammar contributions of several handlers into one
//              set. Rules for the same command combine into a single
//              alternative keyed by discriminator.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package registry

import (
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
)

// Merge combines grammar sets in order.
//
// A command contributed once keeps its entry. Concrete rules contributed
// twice: the later one wins. Alternatives are merged by discriminator, the
// later rule winning on equal keys. A concrete rule meeting an alternative
// becomes its default; the first default seen is kept. Alternatives still
// without a default get grammar.DefaultRule for their discriminator.
// Every overwrite is logged at WARN.
func Merge(logger *log.Logger, sets ...grammar.Set) grammar.Set {
	if logger == nil {
		logger = log.GetDefault()
	}

	merged := make(grammar.Set)
	for _, set := range sets {
		for _, name := range set.Names() {
			entry, ok := set.Lookup(name)
			if !ok {
				continue
			}
			merged[name] = mergeEntry(logger, name, merged[name], entry)
		}
	}

	for name, entry := range merged {
		if alt, ok := entry.(*grammar.Alternative); ok && alt.Default == nil {
			alt.Default = grammar.DefaultRule(alt.Discriminator)
			merged[name] = alt
		}
	}
	return merged
}

func mergeEntry(logger *log.Logger, name string, prev, next grammar.Entry) grammar.Entry {
	switch n := next.(type) {
	case *grammar.Rule:
		switch p := prev.(type) {
		case nil:
			return n
		case *grammar.Rule:
			logger.Warn("grammar rule overwritten", log.Fields{"command": name})
			return n
		case *grammar.Alternative:
			if p.Default == nil {
				p.Default = n
			}
			return p
		}

	case *grammar.Alternative:
		var out *grammar.Alternative
		switch p := prev.(type) {
		case nil:
			return n.Clone()
		case *grammar.Rule:
			out = n.Clone()
			out.Default = p
			return out
		case *grammar.Alternative:
			out = p
		}

		if out.Discriminator == "" {
			out.Discriminator = n.Discriminator
		}
		for _, key := range n.Keys() {
			if _, exists := out.Rules[key]; exists {
				logger.Warn("alternative grammar overwritten", log.Fields{
					"command":       name,
					"discriminator": key,
				})
			}
			out.Rules[key] = n.Rules[key]
		}
		if out.Default == nil {
			out.Default = n.Default
		}
		return out
	}
	return prev
}
