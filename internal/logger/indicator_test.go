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
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestIndicator_NonInteractive(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	ind := NewIndicator("Gathering pods", WithWriter(&buf), WithLineLength(20))
	g.Expect(ind.interactive).To(BeFalse())

	ind.Start()
	g.Expect(buf.String()).To(Equal("Gathering pods......"))

	ind.Stop()
	g.Expect(buf.String()).To(Equal("Gathering pods......DONE\n"))
}

func TestIndicator_Interactive(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	ind := NewIndicator("Query",
		WithWriter(&buf),
		WithInteractive(true),
		WithCharacter("*"),
		WithDelay(time.Millisecond),
		WithLineLength(10),
	)

	ind.Start()
	time.Sleep(50 * time.Millisecond)
	ind.SetExitMessage("OK")
	ind.Stop()

	out := buf.String()
	g.Expect(out).To(HavePrefix(cursorHide + "Query*"))
	g.Expect(out).To(HaveSuffix("\rQuery*****OK\n" + cursorShow))
	g.Expect(strings.Count(out, cursorShow)).To(Equal(1))

	// the line wraps once the progression reaches the line length
	g.Expect(out).To(ContainSubstring("\r" + strings.Repeat(" ", 10) + "\rQuery"))
}

func TestIndicator_MinimumProgression(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	ind := NewIndicator("a message longer than the line",
		WithWriter(&buf),
		WithInteractive(true),
		WithDelay(time.Millisecond),
		WithLineLength(10),
	)

	ind.Start()
	time.Sleep(30 * time.Millisecond)
	ind.Stop()

	g.Expect(buf.String()).To(ContainSubstring("a message longer than the line..."))
	g.Expect(buf.String()).To(HaveSuffix("\ra message longer than the lineDONE\n" + cursorShow))
}

func TestIndicator_StopIsIdempotent(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	ind := NewIndicator("msg", WithWriter(&buf), WithInteractive(true), WithLineLength(5))

	ind.Stop()
	g.Expect(buf.Len()).To(BeZero())

	ind.Start()
	ind.Stop()
	ind.Stop()
	ind.Start()

	g.Expect(strings.Count(buf.String(), DefaultExitMessage)).To(Equal(1))
}

func TestIndicator_Run(t *testing.T) {
	t.Run("returns the result", func(t *testing.T) {
		g := NewWithT(t)

		var buf bytes.Buffer
		ind := NewIndicator("Work", WithWriter(&buf), WithLineLength(6))

		want := errors.New("failed")
		err := ind.Run(func() error {
			ind.SetExitMessage("ERROR")
			return want
		})

		g.Expect(err).To(MatchError(want))
		g.Expect(buf.String()).To(Equal("Work..ERROR\n"))
	})

	t.Run("stops on panic", func(t *testing.T) {
		g := NewWithT(t)

		var buf bytes.Buffer
		ind := NewIndicator("Work", WithWriter(&buf), WithInteractive(true), WithDelay(time.Millisecond), WithLineLength(6))

		g.Expect(func() {
			_ = ind.Run(func() error {
				panic("boom")
			})
		}).To(Panic())

		g.Expect(buf.String()).To(HaveSuffix("\rWork..DONE\n" + cursorShow))
	})
}
