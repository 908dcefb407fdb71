//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package contracts

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	firstNumberRegexp = regexp.MustCompile(`(\d+)`)

	// deadlineRegexp matches dates like "27 de octubre del 2025 18:00".
	// The time part is optional.
	deadlineRegexp = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([a-záéíóú]+)\s+(?:de|del)\s+(\d{4})(?:\s+(\d{1,2}):(\d{2}))?`)
)

// spanishMonths maps lowercase Spanish month names to their numbers.
var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// madrid is the timezone contract deadlines are published in.
var madrid = loadMadrid()

func loadMadrid() *time.Location {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseAmount converts strings like "235.122,56 euros" to a decimal
// 235122.56. It assumes Spanish number formatting: dot as thousands
// separator and comma as decimal separator.
func ParseAmount(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Decimal{}, false
	}

	clean := strings.ToLower(value)
	clean = strings.ReplaceAll(clean, "euros", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDurationMonths converts "2 meses" to 2. It takes the first number in
// the string; anything without a number reports false.
func ParseDurationMonths(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	m := firstNumberRegexp.FindString(value)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseDeadline converts "27 de octubre del 2025 18:00" to a time.Time in
// the Europe/Madrid timezone. The time-of-day part is optional.
func ParseDeadline(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	m := deadlineRegexp.FindStringSubmatch(strings.ToLower(value))
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := spanishMonths[m[2]]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}

	return time.Date(year, month, day, hour, minute, 0, 0, madrid), true
}
