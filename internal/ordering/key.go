package ordering

import (
	"cmp"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	dashGroup    = "~~"
	dashOrder    = 999998
	plainGroup   = "~~~"
	plainOrder   = 999999
	numberedName = "l__numbered"
)

// Buckets rank the three families of keys ahead of any group comparison,
// so a numbered series keeps its place whatever script its prefix uses.
const (
	BucketNumbered = iota
	BucketDash
	BucketPlain
)

// Key is the sort key for a single name.
type Key struct {
	Bucket   int
	Group    string
	Order    int
	Tiebreak string
}

// comparePosition orders two keys by bucket, group and order. Callers
// break remaining ties themselves.
func (k Key) comparePosition(other Key) int {
	if k.Bucket != other.Bucket {
		return cmp.Compare(k.Bucket, other.Bucket)
	}
	if c := strings.Compare(k.Group, other.Group); c != 0 {
		return c
	}
	return cmp.Compare(k.Order, other.Order)
}

// Leading-number forms, tried in this order.
var leadingNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)[\s_\-\.\)\]]+(.*)$`),
	regexp.MustCompile(`^\[(\d+)\][\s_\-\.]*(.*)$`),
	regexp.MustCompile(`^\((\d+)\)[\s_\-\.]*(.*)$`),
	regexp.MustCompile(`^(\d+)([a-zA-Z].*)$`),
	regexp.MustCompile(`^(\d+)()$`),
}

var (
	wordNumberPattern     = regexp.MustCompile(`^(.+?)\s+(\d+)(.*)$`)
	trailingNumberPattern = regexp.MustCompile(`^(.+?)[\s_\-](\d+)(\.[^.]+)?$`)
)

// SortKey returns the key for name. It never fails: names that match no
// numbering rule land in the trailing no-number bucket.
func SortKey(name string) Key {
	lower := strings.ToLower(name)

	if strings.HasPrefix(name, "-") {
		return Key{Bucket: BucketDash, Group: dashGroup, Order: dashOrder, Tiebreak: lower}
	}

	for _, re := range leadingNumberPatterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, ok := parseOrder(m[1])
		if !ok {
			continue
		}
		rest := strings.ToLower(strings.TrimSpace(m[2]))
		if rest == "" {
			rest = lower
		}
		return Key{Group: numberedName, Order: n, Tiebreak: rest}
	}

	if m := wordNumberPattern.FindStringSubmatch(name); m != nil {
		if n, ok := parseOrder(m[2]); ok {
			return Key{
				Group:    strings.ToLower(strings.TrimSpace(m[1])),
				Order:    n,
				Tiebreak: strings.ToLower(strings.TrimSpace(m[3])),
			}
		}
	}

	if m := trailingNumberPattern.FindStringSubmatch(name); m != nil {
		if n, ok := parseOrder(m[2]); ok {
			return Key{
				Group:    strings.ToLower(strings.TrimSpace(m[1])),
				Order:    n,
				Tiebreak: strings.ToLower(m[3]),
			}
		}
	}

	return Key{Bucket: BucketPlain, Group: plainGroup, Order: plainOrder, Tiebreak: lower}
}

// parseOrder rejects digit runs that overflow int32 so an absurd number
// falls through to the next rule instead of wrapping.
func parseOrder(digits string) (int, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
