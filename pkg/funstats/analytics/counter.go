package analytics

import "sort"

// Count is one counter entry.
type Count struct {
	Key   string
	Count int
}

// Counter is a frequency counter that remembers the order in which keys
// were first seen. MostCommon breaks ties by that order.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments key by n.
func (c *Counter) Add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// Get returns the count for key.
func (c *Counter) Get(key string) int {
	return c.counts[key]
}

// Len reports the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.order)
}

// Total sums every count.
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Merge adds every entry of other, visiting other's keys in their
// first-seen order.
func (c *Counter) Merge(other *Counter) {
	if other == nil {
		return
	}
	for _, key := range other.order {
		c.Add(key, other.counts[key])
	}
}

// Entries returns all entries in first-seen order.
func (c *Counter) Entries() []Count {
	out := make([]Count, len(c.order))
	for i, key := range c.order {
		out[i] = Count{Key: key, Count: c.counts[key]}
	}
	return out
}

// MostCommon returns the n highest counts in descending order, ties kept in
// first-seen order. A negative n returns every entry.
func (c *Counter) MostCommon(n int) []Count {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
