package selection

import (
	"stationhub/internal/ui/input/types"
)

// Controller moves an optional cursor over a list whose length is passed
// to every call. It never looks at the items themselves.
type Controller[S State] struct {
	state  S
	looped bool
}

// NewController creates a controller over state. A looped controller wraps
// past either end of the list instead of stopping there.
func NewController[S State](state S, looped bool) *Controller[S] {
	return &Controller[S]{
		state:  state,
		looped: looped,
	}
}

// State returns the backing state, e.g. for rendering the widget it wraps
func (c *Controller[S]) State() S {
	return c.state
}

// Looped reports whether the cursor wraps around
func (c *Controller[S]) Looped() bool {
	return c.looped
}

// SelectNext moves the cursor one item down
func (c *Controller[S]) SelectNext(itemCount int) {
	if itemCount <= 0 {
		c.state.Unselect()
		return
	}

	i, ok := c.state.Selected()
	switch {
	case !ok:
		c.state.Select(0)
	case i < itemCount-1:
		c.state.Select(i + 1)
	case c.looped:
		c.state.Select(0)
	}
}

// SelectPrevious moves the cursor one item up
func (c *Controller[S]) SelectPrevious(itemCount int) {
	if itemCount <= 0 {
		c.state.Unselect()
		return
	}

	i, ok := c.state.Selected()
	switch {
	case !ok:
		c.state.Select(0)
	case i != 0:
		c.state.Select(i - 1)
	case c.looped:
		c.state.Select(itemCount - 1)
	}
}

// SelectFirst jumps to the first item
func (c *Controller[S]) SelectFirst(itemCount int) {
	if itemCount <= 0 {
		c.state.Unselect()
		return
	}
	c.state.Select(0)
}

// SelectLast jumps to the last item
func (c *Controller[S]) SelectLast(itemCount int) {
	if itemCount <= 0 {
		c.state.Unselect()
		return
	}
	c.state.Select(itemCount - 1)
}

// SelectIndex sets the cursor without bounds checking. The caller must
// pass an index below the current item count.
func (c *Controller[S]) SelectIndex(index int) {
	c.state.Select(index)
}

// Unselect clears the cursor
func (c *Controller[S]) Unselect() {
	c.state.Unselect()
}

// Selected returns the cursor, if any
func (c *Controller[S]) Selected() (int, bool) {
	return c.state.Selected()
}

// HandleInput applies a directional input and reports whether it was one
// the controller understands. Unknown inputs leave the cursor untouched.
func (c *Controller[S]) HandleInput(input types.Input, itemCount int) bool {
	switch input {
	case types.InputUp:
		c.SelectPrevious(itemCount)
	case types.InputDown:
		c.SelectNext(itemCount)
	case types.InputBack:
		c.Unselect()
	case types.InputTop:
		c.SelectFirst(itemCount)
	case types.InputBottom:
		c.SelectLast(itemCount)
	default:
		return false
	}
	return true
}
