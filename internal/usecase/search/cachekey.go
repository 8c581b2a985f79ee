package search

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/voca9204/findex/internal/domain/search/request"
)

// cacheKey derives the result-cache key from everything that shapes the
// scored result set: the normalized query, the equality filters, the search
// fields, and whether fuzzy augmentation runs. Pagination parameters are
// deliberately excluded — a hit re-paginates the cached set.
func cacheKey(req *request.Request) [32]byte {
	var sb strings.Builder

	sb.WriteString(strings.ToLower(strings.TrimSpace(req.Query())))
	sb.WriteByte('\n')

	keys := make([]string, 0, len(req.Filters()))
	for k := range req.Filters() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s;", k, req.Filters()[k])
	}
	sb.WriteByte('\n')

	sb.WriteString(strings.Join(req.SearchFields(), ","))
	sb.WriteByte('\n')

	fmt.Fprintf(&sb, "fuzzy=%t:%d", req.FuzzyEnabled(), req.FuzzyThreshold())

	return sha256.Sum256([]byte(sb.String()))
}
