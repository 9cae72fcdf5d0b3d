package scorer

import "github.com/shopspring/decimal"

// DefaultMerchantPatterns returns the built-in merchant-substring table.
// Substrings are matched against the lowered raw merchant name.
func DefaultMerchantPatterns() []MerchantPattern {
	return []MerchantPattern{
		// Groceries
		{Substring: "whole foods", Category: "groceries", Confidence: 0.85},
		{Substring: "trader joe", Category: "groceries", Confidence: 0.85},
		{Substring: "safeway", Category: "groceries", Confidence: 0.85},
		{Substring: "kroger", Category: "groceries", Confidence: 0.85},
		{Substring: "aldi", Category: "groceries", Confidence: 0.80},
		{Substring: "costco", Category: "groceries", Confidence: 0.75},
		{Substring: "market", Category: "groceries", Confidence: 0.55},
		{Substring: "grocery", Category: "groceries", Confidence: 0.70},

		// Food and coffee
		{Substring: "starbucks", Category: "food", Confidence: 0.85},
		{Substring: "mcdonald", Category: "food", Confidence: 0.85},
		{Substring: "subway", Category: "food", Confidence: 0.75},
		{Substring: "chipotle", Category: "food", Confidence: 0.85},
		{Substring: "doordash", Category: "food", Confidence: 0.85},
		{Substring: "uber eats", Category: "food", Confidence: 0.85},
		{Substring: "grubhub", Category: "food", Confidence: 0.85},
		{Substring: "pizza", Category: "food", Confidence: 0.75},
		{Substring: "coffee", Category: "food", Confidence: 0.70},
		{Substring: "cafe", Category: "food", Confidence: 0.65},
		{Substring: "restaurant", Category: "food", Confidence: 0.70},
		{Substring: "bakery", Category: "food", Confidence: 0.65},

		// Transport
		{Substring: "uber", Category: "transport", Confidence: 0.70},
		{Substring: "lyft", Category: "transport", Confidence: 0.85},
		{Substring: "shell", Category: "transport", Confidence: 0.75},
		{Substring: "chevron", Category: "transport", Confidence: 0.80},
		{Substring: "exxon", Category: "transport", Confidence: 0.80},
		{Substring: "gas", Category: "transport", Confidence: 0.55},
		{Substring: "parking", Category: "transport", Confidence: 0.75},
		{Substring: "transit", Category: "transport", Confidence: 0.75},

		// Entertainment
		{Substring: "netflix", Category: "entertainment", Confidence: 0.90},
		{Substring: "spotify", Category: "entertainment", Confidence: 0.90},
		{Substring: "hulu", Category: "entertainment", Confidence: 0.90},
		{Substring: "disney", Category: "entertainment", Confidence: 0.80},
		{Substring: "cinema", Category: "entertainment", Confidence: 0.80},
		{Substring: "theater", Category: "entertainment", Confidence: 0.70},

		// Shopping
		{Substring: "amazon", Category: "shopping", Confidence: 0.70},
		{Substring: "walmart", Category: "shopping", Confidence: 0.65},
		{Substring: "target", Category: "shopping", Confidence: 0.65},
		{Substring: "best buy", Category: "shopping", Confidence: 0.80},
		{Substring: "ebay", Category: "shopping", Confidence: 0.75},

		// Home
		{Substring: "home depot", Category: "home", Confidence: 0.85},
		{Substring: "lowes", Category: "home", Confidence: 0.80},
		{Substring: "ikea", Category: "home", Confidence: 0.85},
		{Substring: "furniture", Category: "home", Confidence: 0.70},

		// Utilities
		{Substring: "electric", Category: "utilities", Confidence: 0.75},
		{Substring: "water", Category: "utilities", Confidence: 0.55},
		{Substring: "internet", Category: "utilities", Confidence: 0.70},
		{Substring: "comcast", Category: "utilities", Confidence: 0.85},
		{Substring: "verizon", Category: "utilities", Confidence: 0.80},
		{Substring: "t-mobile", Category: "utilities", Confidence: 0.85},

		// Health
		{Substring: "pharmacy", Category: "health", Confidence: 0.80},
		{Substring: "walgreens", Category: "health", Confidence: 0.75},
		{Substring: "cvs", Category: "health", Confidence: 0.70},
		{Substring: "clinic", Category: "health", Confidence: 0.75},
		{Substring: "dental", Category: "health", Confidence: 0.80},

		// Travel
		{Substring: "airline", Category: "travel", Confidence: 0.85},
		{Substring: "airbnb", Category: "travel", Confidence: 0.85},
		{Substring: "hotel", Category: "travel", Confidence: 0.80},
		{Substring: "hertz", Category: "travel", Confidence: 0.80},
	}
}

// DefaultAmountBands returns the built-in amount heuristic: small amounts
// bias toward dining, large amounts toward home purchases. Bands cover all
// non-negative amounts.
func DefaultAmountBands() []AmountBand {
	small := decimal.NewFromInt(15)
	medium := decimal.NewFromInt(100)
	large := decimal.NewFromInt(400)

	return []AmountBand{
		{Max: &small, Category: "food", Confidence: 0.55},
		{Min: &small, Max: &medium, Category: "shopping", Confidence: 0.45},
		{Min: &medium, Max: &large, Category: "shopping", Confidence: 0.50},
		{Min: &large, Category: "home", Confidence: 0.55},
	}
}
