// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// signal turns service change callbacks into Bubble Tea messages. Pending
// notifications coalesce: the page always re-reads the full state.
type signal struct {
	ch   chan struct{}
	done chan struct{}
	once sync.Once
}

func newSignal() *signal {
	return &signal{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// notify never blocks, so it is safe to call from inside Update.
func (s *signal) notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// wait returns a command that yields msg on the next notification, or nil
// once the signal is closed. The receiver must call wait again to keep
// listening.
func (s *signal) wait(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.ch:
			return msg
		case <-s.done:
			return nil
		}
	}
}

func (s *signal) close() {
	s.once.Do(func() { close(s.done) })
}
