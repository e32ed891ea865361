// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package client

import "github.com/pkg/browser"

// Authorize assembles the authorization URL for req and opens it in the
// host platform's default browser (§4.11: "delegate URL opening to the
// host platform... return success iff the handler exits with status 0").
// pkg/browser dispatches to xdg-open, "open", or the Windows shell
// depending on GOOS, mirroring the original's platform-specific launcher.
func Authorize(req AuthorizeRequest) error {
	authorizeURL, err := BuildAuthorizeURL(req)
	if err != nil {
		return err
	}
	return browser.OpenURL(authorizeURL)
}
