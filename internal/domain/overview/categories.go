package overview

import (
	"sort"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
)

// AllCategory is the "no filter" sentinel. It always leads the category list.
const AllCategory = "all"

// ListCategories returns "all" followed by every distinct skill name across
// teach and learn lists, sorted by byte order. A skill literally named "all"
// is folded into the sentinel.
func ListCategories(profiles []*profile.Profile) []string {
	seen := make(map[string]struct{})
	for _, p := range profiles {
		if p == nil {
			continue
		}
		for _, n := range p.SkillsToTeach {
			seen[n] = struct{}{}
		}
		for _, n := range p.SkillsToLearn {
			seen[n] = struct{}{}
		}
	}
	delete(seen, "")
	delete(seen, AllCategory)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	return append([]string{AllCategory}, names...)
}
