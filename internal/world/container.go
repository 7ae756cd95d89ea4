package world

import (
	"fmt"

	"github.com/google/uuid"
)

// Container holds stackable items keyed by item id (spec.md §3).
type Container struct {
	ID    string         `json:"id"`
	Items map[string]int `json:"items"`
}

// NewContainerID generates a fresh, collision-free container id. Only used
// when a rule module creates a container that was not already named by a
// deterministic convention (an entity's own inventory container is instead
// named "inventory:{entity_id}", exactly as
// original_source/src/hexcrawler/sim/core.py's add_entity does) — a
// uuid-derived id never needs to be reproduced bit-for-bit across a replay,
// because the command that creates the container carries its own id as a
// param once assigned, so replay sees the same id again rather than
// re-deriving it.
func NewContainerID() string {
	return "container:" + uuid.NewString()
}

// InventoryContainerID returns the deterministic, convention-based
// container id for an entity's own inventory.
func InventoryContainerID(entityID string) string {
	return "inventory:" + entityID
}

// AddItem stacks qty additional units of itemID into c, creating the slot
// if absent. qty must be >= 0; callers enforce "items are stackable,
// non-negative integer" at the command-validation layer (spec.md §3).
func (c *Container) AddItem(itemID string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("world: container %s: quantity must be >= 0", c.ID)
	}
	if c.Items == nil {
		c.Items = make(map[string]int)
	}
	c.Items[itemID] += qty
	return nil
}

// RemoveItem removes up to qty units of itemID, clamping at zero and
// deleting the slot entirely once it reaches zero. Returns the quantity
// actually removed.
func (c *Container) RemoveItem(itemID string, qty int) int {
	if qty < 0 || c.Items == nil {
		return 0
	}
	have := c.Items[itemID]
	removed := qty
	if removed > have {
		removed = have
	}
	remaining := have - removed
	if remaining <= 0 {
		delete(c.Items, itemID)
	} else {
		c.Items[itemID] = remaining
	}
	return removed
}
