// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across journey360.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation with ellipsis
//   - PadRight, SingleLine, FirstNonEmpty
//
// Formatting:
//   - FormatMoney: grouped currency amounts ("₹100,000")
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	display := util.TruncateWidth(place.Name, 30)
//	total := util.FormatMoney(itin.CurrencySymbol, itin.CostSummary.Total)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
