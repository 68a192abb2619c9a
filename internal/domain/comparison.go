package domain

// ComparisonCapacity is the default number of offers held for side-by-side review.
const ComparisonCapacity = 4

// Bounded, newest-first list of offers selected for comparison.
// Adding beyond capacity evicts the oldest member.
type ComparisonSet struct {
	capacity int
	members  []VesselOffer
}

func NewComparisonSet(capacity int) *ComparisonSet {
	if capacity <= 0 {
		capacity = ComparisonCapacity
	}
	return &ComparisonSet{capacity: capacity}
}

// Add inserts offer at the front of the set. An offer already present is moved
// to the front instead of being duplicated. When the set overflows, the oldest
// member is removed and returned.
func (c *ComparisonSet) Add(offer VesselOffer) (evicted *VesselOffer) {
	c.Remove(offer.ID)

	c.members = append([]VesselOffer{offer.Clone()}, c.members...)
	if len(c.members) > c.capacity {
		oldest := c.members[len(c.members)-1]
		c.members = c.members[:len(c.members)-1]
		return &oldest
	}
	return nil
}

// Remove drops the member with the given id.
func (c *ComparisonSet) Remove(id string) bool {
	for i, m := range c.members {
		if m.ID == id {
			c.members = append(c.members[:i:i], c.members[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether an offer with the given id is a member.
func (c *ComparisonSet) Contains(id string) bool {
	for _, m := range c.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Members returns a copy of the members, newest first.
func (c *ComparisonSet) Members() []VesselOffer {
	out := make([]VesselOffer, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m.Clone())
	}
	return out
}

func (c *ComparisonSet) Len() int { return len(c.members) }

func (c *ComparisonSet) Capacity() int { return c.capacity }

// Unload all members.
func (c *ComparisonSet) Clear() {
	c.members = nil
}
