package menu

import (
	"github.com/eliseohh/cafebot/internal/catalog"
)

// Group is a set of items shown as one menu entry.
type Group struct {
	Key   string
	Name  string
	Items []catalog.Item
}

// Single reports whether the group has exactly one member.
func (g Group) Single() bool { return len(g.Items) == 1 }

// Target is the action behind the group's button. category scopes the
// variant lookup and is empty for search results.
func (g Group) Target(category string) Action {
	if g.Single() {
		return Drink{ID: g.Items[0].ID}
	}
	return DrinkVariants{BaseID: g.Key, Category: category}
}

// GroupItems partitions items by GroupKey. Groups keep the order in which
// their first member appears, members keep their input order, and each
// group is named after its first member.
func (c Config) GroupItems(category string, items []catalog.Item) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, it := range items {
		key := c.GroupKey(category, it.ID)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Name: it.Name})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
