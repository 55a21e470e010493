// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    p.timeFormat,
		"localizedTime": p.localizedTime,
		"naturalDay":    p.naturalDay,
		"floatFormat":   p.floatFormat,
		"loc":           p.loc,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

// loc translates a message through the localizer. Unknown messages pass
// through untranslated, spreak falls back to the source language.
func (p *Presenter) loc(val string) string {
	return p.localizer.Get(val)
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

// naturalDay renders a date the way people talk about it ("tomorrow",
// weekday names for nearby days).
func (p *Presenter) naturalDay(val time.Time) string {
	return p.humanizer.NaturalDay(val)
}

func (p *Presenter) timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func (p *Presenter) floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}
