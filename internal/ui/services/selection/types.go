package selection

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
)

// State is the backing storage of a cursor: an optional index
type State interface {
	Selected() (int, bool)
	Select(index int)
	Unselect()
}

// IndexState is a State with no widget behind it
type IndexState struct {
	index    int
	selected bool
}

func (s *IndexState) Selected() (int, bool) {
	return s.index, s.selected
}

func (s *IndexState) Select(index int) {
	s.index = index
	s.selected = true
}

func (s *IndexState) Unselect() {
	s.index = 0
	s.selected = false
}

// ListState adapts a bubbles list. The list always has a cursor and moves
// it when its items change, so the index is kept here and pushed to the
// list on Select.
type ListState struct {
	Model    list.Model
	index    int
	selected bool
}

// NewListState wraps a list with nothing selected
func NewListState(model list.Model) *ListState {
	return &ListState{Model: model}
}

func (s *ListState) Selected() (int, bool) {
	return s.index, s.selected
}

func (s *ListState) Select(index int) {
	s.index = index
	s.selected = true
	s.Model.Select(index)
}

func (s *ListState) Unselect() {
	s.index = 0
	s.selected = false
	s.Model.ResetSelected()
}

// TableState adapts a bubbles table the same way ListState does
type TableState struct {
	Model    table.Model
	index    int
	selected bool
}

// NewTableState wraps a table with nothing selected
func NewTableState(model table.Model) *TableState {
	return &TableState{Model: model}
}

func (s *TableState) Selected() (int, bool) {
	return s.index, s.selected
}

func (s *TableState) Select(index int) {
	s.index = index
	s.selected = true
	s.Model.SetCursor(index)
}

func (s *TableState) Unselect() {
	s.index = 0
	s.selected = false
	s.Model.SetCursor(0)
}
