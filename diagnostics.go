// diagnostics.go: heuristic reachability and exhaustiveness warnings
//
// These checks are advisory. They never fail a program; they print
// "[TONG][warn]" lines on the Diag writer, and TONG_NO_MATCH_WARN
// silences all of them. Clause and arm numbers are zero-based.
package tong

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func (ip *Interp) warnf(format string, args ...any) {
	if ip.suppressWarn {
		return
	}
	fmt.Fprintf(ip.Diag, "[TONG][warn] "+format+"\n", args...)
}

// checkPatternClauses scans every pattern function once before the
// program runs. A clause after an unguarded all-wildcard clause can
// never be reached; two unguarded clauses with the same shape key make
// the later one redundant.
func (ip *Interp) checkPatternClauses() {
	names := make([]string, 0, len(ip.patternFuncs))
	for n := range ip.patternFuncs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, fname := range names {
		clauses := ip.patternFuncs[fname]

		wildcardPos := -1
		for idx, c := range clauses {
			if c.Guard == nil && allWildcard(c.Patterns) {
				wildcardPos = idx
				break
			}
		}
		if wildcardPos >= 0 {
			for later := wildcardPos + 1; later < len(clauses); later++ {
				ip.warnf("unreachable pattern function clause #%d for '%s' (preceded by all-wildcard clause #%d)",
					later, fname, wildcardPos)
			}
		}

		type seenKey struct {
			key string
			idx int
		}
		var seen []seenKey
		for idx, c := range clauses {
			if c.Guard != nil {
				continue // guards may differentiate runtime reachability
			}
			parts := make([]string, 0, len(c.Patterns))
			for _, p := range c.Patterns {
				parts = append(parts, patKey(p))
			}
			key := strings.Join(parts, "|")
			prev := -1
			for _, s := range seen {
				if s.key == key {
					prev = s.idx
					break
				}
			}
			if prev >= 0 {
				ip.warnf("redundant pattern function clause #%d for '%s' (covered by earlier clause #%d)",
					idx, fname, prev)
			} else {
				seen = append(seen, seenKey{key, idx})
			}
		}
	}
}

func allWildcard(pats []Pattern) bool {
	for _, p := range pats {
		switch p.(type) {
		case *WildcardPat, *BindPat:
		default:
			return false
		}
	}
	return true
}

// patKey flattens a pattern into a comparable shape key; wildcards and
// variable binds collapse together.
func patKey(p Pattern) string {
	switch pt := p.(type) {
	case *WildcardPat, *BindPat:
		return "_"
	case *IntPat:
		return "i:" + strconv.FormatInt(pt.Val, 10)
	case *BoolPat:
		return "b:" + strconv.FormatBool(pt.Val)
	case *CtorPat:
		if len(pt.Sub) == 0 {
			return "C:" + pt.Name
		}
		inner := make([]string, 0, len(pt.Sub))
		for _, s := range pt.Sub {
			inner = append(inner, patKey(s))
		}
		return "C:" + pt.Name + "(" + strings.Join(inner, ",") + ")"
	case *TuplePat:
		inner := make([]string, 0, len(pt.Sub))
		for _, s := range pt.Sub {
			inner = append(inner, patKey(s))
		}
		return "T(" + strings.Join(inner, ",") + ")"
	default:
		return "?"
	}
}

// checkMatchRedundancy warns about arms that follow an unguarded
// wildcard and about duplicate unguarded arm shapes. Variable patterns
// bind freshly, so duplicates among them are allowed.
func (ip *Interp) checkMatchRedundancy(arms []MatchArm) {
	seenUnconditional := map[string]bool{}
	wildcardSeen := false
	for idx, arm := range arms {
		if wildcardSeen {
			if seenUnconditional["_"] {
				ip.warnf("unreachable match arm #%d (follows wildcard)", idx)
			}
			continue
		}
		unconditional := arm.Guard == nil
		k, ok := armKey(arm.Pat)
		if !ok {
			continue
		}
		if k == "_" {
			if unconditional {
				seenUnconditional[k] = true
			}
			wildcardSeen = true
			continue
		}
		if unconditional {
			if seenUnconditional[k] {
				ip.warnf("redundant match arm #%d (pattern already covered)", idx)
			} else {
				seenUnconditional[k] = true
			}
		}
	}
}

func armKey(p Pattern) (string, bool) {
	switch pt := p.(type) {
	case *WildcardPat:
		return "_", true
	case *IntPat:
		return "Int:" + strconv.FormatInt(pt.Val, 10), true
	case *BoolPat:
		return "Bool:" + strconv.FormatBool(pt.Val), true
	case *CtorPat:
		return fmt.Sprintf("Ctor:%s:%d", pt.Name, pt.Arity), true
	case *TuplePat:
		return fmt.Sprintf("Tuple:%d", len(pt.Sub)), true
	default:
		return "", false // variable pattern always binds freshly
	}
}

// checkMatchExhaustiveness is a shallow check run after a successful
// match: with no wildcard arm, the constructors named by the arms are
// compared against all constructors of the first one's declared type.
func (ip *Interp) checkMatchExhaustiveness(arms []MatchArm) {
	var used []string
	for _, arm := range arms {
		switch pt := arm.Pat.(type) {
		case *WildcardPat:
			return
		case *CtorPat:
			if !containsStr(used, pt.Name) {
				used = append(used, pt.Name)
			}
		}
	}
	if len(used) == 0 {
		return
	}
	ty, ok := ip.ctorType[used[0]]
	if !ok {
		return
	}
	var missing []string
	for _, c := range ip.typeCtors[ty] {
		if !containsStr(used, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		ip.warnf("non-exhaustive match for type '%s'; missing constructors: %s",
			ty, strings.Join(missing, ","))
	}
}

func containsStr(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
