// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseSeconds parses a configuration time value of the form "NNN{m,h,d,w}"
// per the MaxGrantLife/MaxTokenLife directive grammar: a bare integer is
// seconds, and the optional trailing unit letter is minutes, hours, days, or
// weeks respectively. Units are matched case-insensitively.
func ParseSeconds(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("empty time value")
	}

	unit := time.Second
	numeric := value

	switch last := strings.ToLower(value[len(value)-1:]); last {
	case "m":
		unit = time.Minute
		numeric = value[:len(value)-1]
	case "h":
		unit = time.Hour
		numeric = value[:len(value)-1]
	case "d":
		unit = 24 * time.Hour
		numeric = value[:len(value)-1]
	case "w":
		unit = 7 * 24 * time.Hour
		numeric = value[:len(value)-1]
	}

	n, err := strconv.Atoi(numeric)
	if err != nil {
		return 0, fmt.Errorf("bad time value %q: %w", value, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("bad time value %q: negative", value)
	}

	return time.Duration(n) * unit, nil
}
