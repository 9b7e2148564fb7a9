// Package ranking orders hunters for the leaderboard and assigns level tiers.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/bugbash/store"
)

type SortKey string

const (
	SortRank       SortKey = "rank"
	SortName       SortKey = "name"
	SortBugs       SortKey = "bugs"
	SortBounty     SortKey = "bounty"
	SortEfficiency SortKey = "efficiency"
	SortLevel      SortKey = "level"
)

var SortKeys = []SortKey{SortRank, SortName, SortBugs, SortBounty, SortEfficiency, SortLevel}

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("ranking: unknown sort key %q", s)
}

// DefaultAscending reports the initial direction for a column: names sort
// A to Z, every number sorts high to low.
func DefaultAscending(k SortKey) bool {
	return k == SortName
}

// Order is a leaderboard column and direction.
type Order struct {
	Key       SortKey
	Ascending bool
}

func NewOrder(k SortKey) Order {
	return Order{Key: k, Ascending: DefaultAscending(k)}
}

// By picks k like clicking a column header: the current column flips, any
// other starts in its default direction.
func (o Order) By(k SortKey) Order {
	if k == o.Key {
		return Order{Key: k, Ascending: !o.Ascending}
	}
	return NewOrder(k)
}

// Next moves to the column after o in SortKeys, wrapping.
func (o Order) Next() Order {
	for i, k := range SortKeys {
		if k == o.Key {
			return NewOrder(SortKeys[(i+1)%len(SortKeys)])
		}
	}
	return NewOrder(SortRank)
}

func (o Order) String() string {
	if o.Ascending {
		return string(o.Key) + " asc"
	}
	return string(o.Key) + " desc"
}

func (o Order) Board(hunters []store.Hunter, tier TierFunc) []Row {
	return Board(hunters, o.Key, o.Ascending, tier)
}

// Tier is a level band. Level orders tiers numerically, Bronze = 1.
type Tier struct {
	Name  string
	Level int
}

type TierFunc func(bounty int) Tier

func DefaultTier(bounty int) Tier {
	switch {
	case bounty >= 6000:
		return Tier{Name: "Platinum", Level: 4}
	case bounty >= 4000:
		return Tier{Name: "Gold", Level: 3}
	case bounty >= 2000:
		return Tier{Name: "Silver", Level: 2}
	default:
		return Tier{Name: "Bronze", Level: 1}
	}
}

type Row struct {
	// Rank is the 1-based position by total bounty.
	Rank       int
	HunterID   string
	Name       string
	Bugs       int
	Bounty     int
	Efficiency float64
	Tier       Tier
}

// Board builds leaderboard rows sorted by key. Ties keep rank order.
func Board(hunters []store.Hunter, key SortKey, ascending bool, tier TierFunc) []Row {
	if tier == nil {
		tier = DefaultTier
	}
	rows := make([]Row, 0, len(hunters))
	for _, h := range hunters {
		r := Row{
			HunterID: h.ID,
			Name:     h.Name,
			Bugs:     h.BugCount(),
			Bounty:   h.TotalBounty(),
		}
		if r.Bugs > 0 {
			r.Efficiency = float64(r.Bounty) / float64(r.Bugs)
		}
		r.Tier = tier(r.Bounty)
		rows = append(rows, r)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Bounty > rows[j].Bounty })
	for i := range rows {
		rows[i].Rank = i + 1
	}

	cmp := compareBy(key)
	sort.SliceStable(rows, func(i, j int) bool {
		c := cmp(rows[i], rows[j])
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return rows
}

func compareBy(key SortKey) func(a, b Row) int {
	switch key {
	case SortName:
		return func(a, b Row) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case SortBugs:
		return func(a, b Row) int { return compareInt(a.Bugs, b.Bugs) }
	case SortEfficiency:
		return func(a, b Row) int { return compareFloat(a.Efficiency, b.Efficiency) }
	case SortLevel:
		return func(a, b Row) int { return compareInt(a.Tier.Level, b.Tier.Level) }
	default:
		// rank and bounty both order by total bounty
		return func(a, b Row) int { return compareInt(a.Bounty, b.Bounty) }
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
