// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package calendar renders a month-grid view of estimated road conditions
// for terminal output.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/uzenn/mudwatch/internal/roadcond"
	"github.com/uzenn/mudwatch/internal/weather"
)

const (
	cellWidth = 3
	gridWidth = cellWidth*7 - 1

	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

var ErrLengthMismatch = errors.New("series and status lengths differ")

// Options control the calendar rendering.
type Options struct {
	// Color enables ANSI colored day cells. Without color, muddy days are
	// marked with an asterisk instead.
	Color bool
}

// Render returns one calendar grid per month covered by the series, weeks
// starting on Monday. Days outside the series render uncolored.
func Render(series weather.Series, statuses []roadcond.Status, opts Options) (string, error) {
	if len(series) == 0 {
		return "", roadcond.ErrEmptySeries
	}
	if len(series) != len(statuses) {
		return "", fmt.Errorf("%w: %d days, %d statuses", ErrLengthMismatch, len(series), len(statuses))
	}

	// All days are normalized into the first record's location so that grid
	// iteration and status lookup agree on the map keys.
	loc := series[0].Day.Location()
	byDay := make(map[time.Time]roadcond.Status, len(series))
	for i, rec := range series {
		byDay[weather.Day(rec.Day.In(loc))] = statuses[i]
	}

	builder := strings.Builder{}
	first := monthOf(series[0].Day)
	last := monthOf(series[len(series)-1].Day)
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		if month != first {
			builder.WriteString("\n")
		}
		renderMonth(&builder, month, byDay, opts)
	}
	builder.WriteString("\n")
	builder.WriteString(legend(opts))
	builder.WriteString("\n")

	return builder.String(), nil
}

func renderMonth(builder *strings.Builder, month time.Time, byDay map[time.Time]roadcond.Status,
	opts Options,
) {
	title := month.Format("January 2006")
	pad := (gridWidth - runewidth.StringWidth(title)) / 2
	if pad > 0 {
		builder.WriteString(strings.Repeat(" ", pad))
	}
	builder.WriteString(title)
	builder.WriteString("\nMo Tu We Th Fr Sa Su\n")

	col := mondayIndex(month)
	if col > 0 {
		builder.WriteString(strings.Repeat(" ", col*cellWidth))
	}
	for day := month; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
		builder.WriteString(cell(day, byDay, opts))
		col++
		if col == 7 {
			builder.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		builder.WriteString("\n")
	}
}

func cell(day time.Time, byDay map[time.Time]roadcond.Status, opts Options) string {
	number := fmt.Sprintf("%2d", day.Day())
	status, ok := byDay[day]
	if !ok {
		return number + " "
	}
	if !opts.Color {
		if status == roadcond.Muddy {
			return number + "*"
		}
		return number + " "
	}
	return statusColor(status) + number + ansiReset + " "
}

func legend(opts Options) string {
	if !opts.Color {
		return "* muddy"
	}
	return fmt.Sprintf("%sdry%s %smuddy%s", ansiGreen, ansiReset, ansiRed, ansiReset)
}

func statusColor(status roadcond.Status) string {
	if status == roadcond.Muddy {
		return ansiRed
	}
	return ansiGreen
}

// mondayIndex returns the column of the given day in a Monday-first week.
func mondayIndex(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

func monthOf(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}
