// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "errors"

// ErrUnsupportedVertexFormat is returned when a vertex element's component
// type and count have no native vertex format.
var ErrUnsupportedVertexFormat = errors.New("gfx: unsupported vertex format")
