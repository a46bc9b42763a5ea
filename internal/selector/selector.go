// Package selector expands modifier target selectors into entity IDs.
//
// Grammar, per entity kind (asset, hustle):
//
//	asset:<id>                  exactly that entity, when in scope
//	asset[tag=<v1>|<v2>]        in-scope entities sharing any tag
//	asset[id=<v1>|<v2>]         in-scope entities with a listed id
//
// The plural "assets[" / "hustles[" spellings are accepted too. A target is a
// selector followed by ".<attribute>". "state:time.bonus" is the global time
// bonus. Unknown selectors resolve to nothing instead of failing.
package selector

import (
	"strings"
)

// Kind is the entity family a target addresses.
type Kind int

const (
	KindUnknown Kind = iota
	KindAsset
	KindHustle
	KindTimeState
)

func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindHustle:
		return "hustle"
	case KindTimeState:
		return "state:time"
	}
	return "unknown"
}

// Recognised attributes.
const (
	AttrIncome          = "income"
	AttrSetupTime       = "setup_time"
	AttrMaintenanceTime = "maintenance_time"
	AttrBonus           = "bonus"
)

// Target is a parsed modifier target.
type Target struct {
	Kind      Kind
	Selector  string
	Attribute string
}

// SupportsAttribute reports whether the attribute is meaningful for the kind.
func (t Target) SupportsAttribute() bool {
	switch t.Kind {
	case KindAsset:
		return t.Attribute == AttrIncome || t.Attribute == AttrSetupTime || t.Attribute == AttrMaintenanceTime
	case KindHustle:
		return t.Attribute == AttrIncome || t.Attribute == AttrSetupTime
	case KindTimeState:
		return t.Attribute == AttrBonus
	}
	return false
}

// ParseTarget splits "selector.attribute". ok is false when there is no attribute.
func ParseTarget(target string) (Target, bool) {
	target = strings.TrimSpace(target)
	// Attributes never contain dots; selector values may.
	i := strings.LastIndex(target, ".")
	if i <= 0 || i == len(target)-1 {
		return Target{}, false
	}
	sel := target[:i]
	t := Target{
		Selector:  sel,
		Attribute: strings.TrimSpace(target[i+1:]),
	}
	switch {
	case sel == "state:time":
		t.Kind = KindTimeState
	case strings.HasPrefix(sel, "asset"):
		t.Kind = KindAsset
	case strings.HasPrefix(sel, "hustle"):
		t.Kind = KindHustle
	}
	return t, true
}

// Scope is the set of entities a run selected, in selection order.
type Scope struct {
	IDs  []string
	Tags func(id string) []string
}

// Resolution is either Resolved with its IDs, or unresolved (unknown selector).
type Resolution struct {
	IDs      []string
	Resolved bool
}

// Empty reports whether the resolution selects nothing.
func (r Resolution) Empty() bool {
	return len(r.IDs) == 0
}

func unresolved() Resolution {
	return Resolution{}
}

// Resolve expands a selector against the scope. Result IDs follow scope order.
func Resolve(kind Kind, selector string, scope Scope) Resolution {
	var singular, plural string
	switch kind {
	case KindAsset:
		singular, plural = "asset", "assets"
	case KindHustle:
		singular, plural = "hustle", "hustles"
	default:
		return unresolved()
	}

	if id, ok := strings.CutPrefix(selector, singular+":"); ok {
		for _, candidate := range scope.IDs {
			if candidate == id {
				return Resolution{IDs: []string{id}, Resolved: true}
			}
		}
		return Resolution{Resolved: true}
	}

	inner, ok := bracketBody(selector, plural)
	if !ok {
		inner, ok = bracketBody(selector, singular)
	}
	if !ok {
		return unresolved()
	}
	field, raw, ok := strings.Cut(inner, "=")
	if !ok {
		return unresolved()
	}
	values := splitValues(raw)

	var match func(id string) bool
	switch strings.TrimSpace(field) {
	case "tag":
		match = func(id string) bool {
			if scope.Tags == nil {
				return false
			}
			return intersects(values, scope.Tags(id))
		}
	case "id":
		match = func(id string) bool {
			_, hit := values[id]
			return hit
		}
	default:
		return unresolved()
	}

	res := Resolution{Resolved: true}
	for _, id := range scope.IDs {
		if match(id) {
			res.IDs = append(res.IDs, id)
		}
	}
	return res
}

func bracketBody(selector, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(selector, prefix+"[")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, "]")
}

func splitValues(raw string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, v := range strings.Split(raw, "|") {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func intersects(values map[string]struct{}, tags []string) bool {
	for _, tag := range tags {
		if _, ok := values[tag]; ok {
			return true
		}
	}
	return false
}
