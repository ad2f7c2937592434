package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// KeySeparator delimits the scope prefix from the parameter digest
const KeySeparator = "::"

// BuildKey builds a deterministic cache key from a scope prefix and a set
// of named parameters. Two logically identical parameter sets produce the
// same key regardless of the order they were supplied in: keys are sorted
// before serialization and the canonical form is digested with xxhash.
//
// The scope prefix stays in the clear so scoped invalidation can match on
// it (see ProductScope).
func BuildKey(scope string, params map[string]any) string {
	if len(params) == 0 {
		return scope
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(formatParam(params[name]))
	}

	return scope + KeySeparator + fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// ProductScope is the clear-text key prefix for everything cached about a
// single product. Invalidation for product P matches ProductScope(P)+"::*".
func ProductScope(productID int64) string {
	return "product:" + strconv.FormatInt(productID, 10)
}

// QuoteKey builds the cache key for a resolved quote
func QuoteKey(productID int64, width, height float64, materialID int64) string {
	return BuildKey(ProductScope(productID), map[string]any{
		"width":    width,
		"height":   height,
		"material": materialID,
	})
}

// ListKey builds the cache key for an entity list endpoint
func ListKey(entity string, params map[string]any) string {
	if len(params) == 0 {
		return entity
	}
	return BuildKey(entity, params)
}

// formatParam renders a parameter value deterministically. Floats use the
// shortest round-trip form so 36 and 36.0 collide; decimals use their
// canonical string.
func formatParam(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
