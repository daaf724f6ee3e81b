package domain

// Tag is a (title, value) classification pair as attached to an Ad.
type Tag struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ClassGroup is one catalog title with its permitted values in catalog order.
type ClassGroup struct {
	Title  string   `json:"title"`
	Values []string `json:"values"`
}

// ClassCatalog is an ordered mapping from class title to permitted values.
// It is immutable after construction and safe for concurrent reads.
type ClassCatalog struct {
	groups []ClassGroup
	index  map[string]int
}

// NewClassCatalog groups flat rows by title, keeping the order in which each
// title and each value was first seen.
func NewClassCatalog(rows []Class) ClassCatalog {
	c := ClassCatalog{index: make(map[string]int)}
	for _, r := range rows {
		i, ok := c.index[r.Title]
		if !ok {
			i = len(c.groups)
			c.index[r.Title] = i
			c.groups = append(c.groups, ClassGroup{Title: r.Title})
		}
		c.groups[i].Values = append(c.groups[i].Values, r.Value)
	}
	return c
}

// Groups returns a copy of the catalog in order.
func (c ClassCatalog) Groups() []ClassGroup {
	out := make([]ClassGroup, 0, c.Len())
	for _, t := range c.Titles() {
		out = append(out, ClassGroup{Title: t, Values: c.Values(t)})
	}
	return out
}

// Titles returns the class titles in catalog order.
func (c ClassCatalog) Titles() []string {
	out := make([]string, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Title
	}
	return out
}

// Values returns the permitted values for title, or nil if unknown.
func (c ClassCatalog) Values(title string) []string {
	i, ok := c.index[title]
	if !ok {
		return nil
	}
	return append([]string(nil), c.groups[i].Values...)
}

// Allows reports whether (title, value) is a permitted combination.
func (c ClassCatalog) Allows(title, value string) bool {
	i, ok := c.index[title]
	if !ok {
		return false
	}
	for _, v := range c.groups[i].Values {
		if v == value {
			return true
		}
	}
	return false
}

// Len returns the number of titles.
func (c ClassCatalog) Len() int { return len(c.groups) }
