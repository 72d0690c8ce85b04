// Package tabbar holds the selected top-level screen.
package tabbar

import "github.com/avachat/avachat/internal/client/dispatch"

// Tab identifies a top-level screen.
type Tab int

const (
	TabAvatars Tab = iota
	TabChats
	TabUsers
	TabProfile
)

// String names the tab for display.
func (t Tab) String() string {
	switch t {
	case TabAvatars:
		return "avatars"
	case TabChats:
		return "chats"
	case TabUsers:
		return "users"
	case TabProfile:
		return "profile"
	}
	return "unknown"
}

// State is the selected tab.
type State struct {
	Selected Tab
}

// Action is the closed set of inputs the tabbar reducer handles.
type Action interface{ isTabAction() }

// SelectTab switches the active screen.
type SelectTab struct{ Tab Tab }

func (SelectTab) isTabAction() {}

// Reduce is the tabbar state-transition function.
func Reduce(s State, a Action) (State, []dispatch.Effect[Action]) {
	switch a := a.(type) {
	case SelectTab:
		s.Selected = a.Tab
	}
	return s, nil
}

// NewStore starts a dispatch store on the avatars tab.
func NewStore() *dispatch.Store[State, Action] {
	return dispatch.NewStore(State{Selected: TabAvatars}, Reduce)
}
