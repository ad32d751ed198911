// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is shown when an itinerary does not name its currency.
const DefaultCurrency = "₹"

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount with grouping separators and a currency
// symbol, dropping the fraction when it is whole: "₹100,000", "₹12.50".
func FormatMoney(symbol string, amount float64) string {
	if symbol == "" {
		symbol = DefaultCurrency
	}
	if amount == float64(int64(amount)) {
		return symbol + moneyPrinter.Sprintf("%d", int64(amount))
	}
	return symbol + moneyPrinter.Sprintf("%.2f", amount)
}
