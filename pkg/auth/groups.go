// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
	"os/user"
	"strconv"
)

// ResolveGroup interprets the value of an IntrospectGroup or RegisterGroup
// directive (§6), which names a group by either its numeric gid or its
// name, and returns the numeric gid.
func ResolveGroup(value string) (int, error) {
	if gid, err := strconv.Atoi(value); err == nil {
		return gid, nil
	}

	g, err := user.LookupGroup(value)
	if err != nil {
		return 0, fmt.Errorf("resolving group %q: %w", value, err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, fmt.Errorf("group %q has non-numeric gid %q", value, g.Gid)
	}
	return gid, nil
}

// InGroup reports whether gid appears in gids.
func InGroup(gids []int, gid int) bool {
	for _, g := range gids {
		if g == gid {
			return true
		}
	}
	return false
}
