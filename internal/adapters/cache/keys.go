package cache

import (
	"strings"

	"github.com/samber/lo"
)

// uniqueKeys trims keys and drops blanks and duplicates, keeping first-seen order.
func uniqueKeys(keys []string) []string {
	trimmed := lo.Map(keys, func(k string, _ int) string { return strings.TrimSpace(k) })
	return lo.Uniq(lo.Compact(trimmed))
}
