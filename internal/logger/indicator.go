/*
Copyright 2024 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

const (
	cursorHide = "\033[?25l"
	cursorShow = "\033[?25h"

	minIndicatorLength = 3

	DefaultIndicatorCharacter  = "."
	DefaultIndicatorDelay      = 900 * time.Millisecond
	DefaultIndicatorLineLength = 50
	DefaultExitMessage         = "DONE"
)

type indicatorState int

const (
	indicatorIdle indicatorState = iota
	indicatorRunning
	indicatorStopped
)

// Indicator displays a message followed by a growing line of characters
// while a long-running call is in progress.
// Only one Indicator should be active per writer at a time.
type Indicator struct {
	w           io.Writer
	message     string
	char        string
	delay       time.Duration
	lineLength  int
	interactive bool

	mu          sync.Mutex
	state       indicatorState
	exitMessage string
	stop        chan struct{}
	done        chan struct{}
}

// IndicatorOption configures an Indicator.
type IndicatorOption func(*Indicator)

// WithWriter sets the output of the indicator, defaults to os.Stdout.
func WithWriter(w io.Writer) IndicatorOption {
	return func(i *Indicator) {
		i.w = w
	}
}

// WithCharacter sets the progression character.
func WithCharacter(char string) IndicatorOption {
	return func(i *Indicator) {
		if char != "" {
			i.char = char
		}
	}
}

// WithDelay sets the interval between two progression characters.
func WithDelay(delay time.Duration) IndicatorOption {
	return func(i *Indicator) {
		if delay > 0 {
			i.delay = delay
		}
	}
}

// WithLineLength sets the total width of the message and progression.
func WithLineLength(length int) IndicatorOption {
	return func(i *Indicator) {
		if length > 0 {
			i.lineLength = length
		}
	}
}

// WithInteractive overrides the terminal detection.
func WithInteractive(interactive bool) IndicatorOption {
	return func(i *Indicator) {
		i.interactive = interactive
	}
}

// NewIndicator returns an idle indicator for the given message.
func NewIndicator(message string, opts ...IndicatorOption) *Indicator {
	i := &Indicator{
		w:           os.Stdout,
		message:     message,
		char:        DefaultIndicatorCharacter,
		delay:       DefaultIndicatorDelay,
		lineLength:  DefaultIndicatorLineLength,
		exitMessage: DefaultExitMessage,
	}
	i.interactive = isTerminal(i.w)
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetExitMessage sets the message written when the indicator stops.
func (i *Indicator) SetExitMessage(msg string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.exitMessage = msg
}

// Start writes the message and, on a terminal, starts the progression.
// Calling Start on a running or stopped indicator has no effect.
func (i *Indicator) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != indicatorIdle {
		return
	}
	i.state = indicatorRunning

	if !i.interactive {
		fmt.Fprint(i.w, i.padded())
		return
	}

	fmt.Fprint(i.w, cursorHide+i.message)
	i.stop = make(chan struct{})
	i.done = make(chan struct{})
	go i.progress(i.stop, i.done)
}

// Stop ends the progression, fills the line and writes the exit message.
// It returns after the progression goroutine has exited.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != indicatorRunning {
		return
	}
	i.state = indicatorStopped

	if i.interactive {
		close(i.stop)
		<-i.done
		fmt.Fprintf(i.w, "\r%s%s\n%s", i.padded(), i.exitMessage, cursorShow)
		return
	}
	fmt.Fprintf(i.w, "%s\n", i.exitMessage)
}

// Run starts the indicator, calls fn and stops the indicator on every exit path.
func (i *Indicator) Run(fn func() error) error {
	i.Start()
	defer i.Stop()
	return fn()
}

func (i *Indicator) progress(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	total := i.lineLength - utf8.RuneCountInString(i.message)
	if total < minIndicatorLength {
		total = minIndicatorLength
	}

	ticker := time.NewTicker(i.delay)
	defer ticker.Stop()

	count := 0
	for {
		if count < total {
			fmt.Fprint(i.w, i.char)
			count++
		} else {
			fmt.Fprintf(i.w, "\r%s\r%s", strings.Repeat(" ", i.lineLength), i.message)
			count = 0
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// padded returns the message filled with the progression character up to the line length.
func (i *Indicator) padded() string {
	n := i.lineLength - utf8.RuneCountInString(i.message)
	if n <= 0 {
		return i.message
	}
	fill := strings.Repeat(i.char, n)
	return i.message + string([]rune(fill)[:n])
}
