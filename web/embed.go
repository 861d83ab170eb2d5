// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the page templates and static assets into the binary.
package web

import "embed"

// Templates holds layouts/, partials/, pages/ and admin/.
//
//go:embed all:templates
var Templates embed.FS

// Static holds css/ and js/, served under /static/.
//
//go:embed all:static
var Static embed.FS
