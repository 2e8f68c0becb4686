// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package analytics

import (
	"time"

	"github.com/reelstats/reelstats/internal/models"
)

const (
	// activityWindowDays is the size of the rolling activity window.
	activityWindowDays = 365

	// daysPerWeek is the grid column height (Sunday through Saturday).
	daysPerWeek = 7

	// minLabelSpacing is the minimum number of week columns between two
	// month labels. When a label would land closer than this to the next
	// one, the earlier label is dropped so that labels never collide at
	// year boundaries (December immediately followed by January).
	minLabelSpacing = 4
)

const isoDate = "2006-01-02"

// intensityLevel maps a day's rating count to its fixed rendering bucket.
// The bucketing is deliberately absolute, never relative to the user's
// maximum: 0 ratings -> 0, 1 -> 1, 2 -> 2, 3 or more -> 3.
func intensityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	default:
		return 3
	}
}

// BuildActivityCalendar buckets rating events into the rolling 365-day,
// week-aligned activity grid ending at the given "today".
//
// The true window is [today-364, today]. The grid extends it on both sides
// to full Sunday-through-Saturday weeks; the extension cells carry
// models.PaddingCount so renderers can tell calendar padding from a real
// zero-activity day. Events dated after today contribute nothing.
func BuildActivityCalendar(events []models.RatingEvent, today time.Time) models.ActivityCalendar {
	today = dateOnly(today)
	windowStart := today.AddDate(0, 0, -(activityWindowDays - 1))

	// Align the grid to week boundaries: back up to the Sunday on or
	// before the window start, extend to the Saturday on or after today.
	gridStart := windowStart.AddDate(0, 0, -int(windowStart.Weekday()))
	gridEnd := today.AddDate(0, 0, int(time.Saturday-today.Weekday()))

	counts := make(map[time.Time]int, len(events))
	for _, ev := range events {
		day := dateOnly(ev.RatedOn)
		if day.After(today) {
			continue
		}
		counts[day]++
	}

	var (
		activity []models.ActivityDay
		weeks    [][]models.ActivityDay
		week     []models.ActivityDay
	)
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		cell := models.ActivityDay{Date: d.Format(isoDate)}
		if d.Before(windowStart) || d.After(today) {
			cell.Count = models.PaddingCount
		} else {
			cell.Count = counts[d]
			cell.Level = intensityLevel(cell.Count)
			activity = append(activity, cell)
		}
		week = append(week, cell)
		if len(week) == daysPerWeek {
			weeks = append(weeks, week)
			week = nil
		}
	}

	return models.ActivityCalendar{
		Activity:    activity,
		Weeks:       weeks,
		MonthLabels: buildMonthLabels(weeks),
		StartDate:   windowStart.Format(isoDate),
		EndDate:     today.Format(isoDate),
	}
}

// buildMonthLabels places month labels over the week columns. Each column is
// labeled with the month of its first in-window day; a label is emitted only
// when that month differs from the previously labeled one, and an earlier
// label is dropped when the next would land within minLabelSpacing columns.
func buildMonthLabels(weeks [][]models.ActivityDay) []models.MonthLabel {
	var labels []models.MonthLabel
	lastMonth := ""
	for i, week := range weeks {
		month := firstInWindowMonth(week)
		if month == "" || month == lastMonth {
			continue
		}
		lastMonth = month
		// Drop earlier labels crowded out by this one.
		for len(labels) > 0 && i-labels[len(labels)-1].WeekIndex < minLabelSpacing {
			labels = labels[:len(labels)-1]
		}
		labels = append(labels, models.MonthLabel{WeekIndex: i, Label: month})
	}
	return labels
}

// firstInWindowMonth returns the short month name of the first non-padding
// cell in the week, or "" for a week of padding only.
func firstInWindowMonth(week []models.ActivityDay) string {
	for _, cell := range week {
		if cell.Count == models.PaddingCount {
			continue
		}
		d, err := time.Parse(isoDate, cell.Date)
		if err != nil {
			continue
		}
		return d.Month().String()[:3]
	}
	return ""
}
