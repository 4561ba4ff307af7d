package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vigilant-co/nimble-trace-core/modules/core/catalog"
)

// Accent colors and icon letters per tracked site, keyed lowercase.
var (
	websiteColors = map[string]string{
		"amazon":     "#FF9900",
		"digikala":   "#3B82F6",
		"ebay":       "#E53238",
		"aliexpress": "#FF6A00",
		"walmart":    "#0071CE",
		"bestbuy":    "#0046BE",
		"target":     "#CC0000",
		"newegg":     "#8DC63F",
	}
	websiteIcons = map[string]string{
		"amazon":     "A",
		"digikala":   "D",
		"ebay":       "E",
		"aliexpress": "AE",
		"walmart":    "W",
		"bestbuy":    "BB",
		"target":     "T",
		"newegg":     "N",
	}
	currencySymbols = map[string]string{
		"USD": "$",
		"EUR": "€",
		"GBP": "£",
		"JPY": "¥",
		"IRR": "IRR ",
	}
)

// WebsiteColor returns the accent color for a site, or a neutral gray
func WebsiteColor(website string) string {
	if c, ok := websiteColors[strings.ToLower(website)]; ok {
		return c
	}
	return "#6B7280"
}

// WebsiteIcon returns the icon letter for a site
func WebsiteIcon(website string) string {
	if i, ok := websiteIcons[strings.ToLower(website)]; ok {
		return i
	}
	return "?"
}

// FormatPrice renders a price with its currency symbol, two decimals
func FormatPrice(price float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return fmt.Sprintf("%s%.2f", symbol, price)
}

// FormatChange renders a signed percentage with two decimals
func FormatChange(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// FormatTimeAgo renders a relative age label for a timestamp
func FormatTimeAgo(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}

// RowVM is a product prepared for display
type RowVM struct {
	ID          string
	Icon        string
	IconColor   string
	Name        string
	Website     string
	Category    string
	Price       string
	Change      string
	ChangeUp    bool
	UpdatedAgo  string
	StatusLabel string
	Status      catalog.Status
}

// BuildRow formats a product into a display row
func BuildRow(p catalog.Product, now time.Time) RowVM {
	category := p.Category
	if category == "" {
		category = "Uncategorized"
	}
	return RowVM{
		ID:          p.ID,
		Icon:        WebsiteIcon(p.Website),
		IconColor:   WebsiteColor(p.Website),
		Name:        p.Name,
		Website:     p.Website,
		Category:    category,
		Price:       FormatPrice(p.CurrentPrice, p.Currency),
		Change:      FormatChange(p.Change24h),
		ChangeUp:    p.Change24h >= 0,
		UpdatedAgo:  FormatTimeAgo(p.LastUpdated, now),
		StatusLabel: p.Status.Label(),
		Status:      p.Status,
	}
}

// SortLabel is the column header label for a sort field
func SortLabel(field string) string {
	switch field {
	case SortByName:
		return "Product"
	case SortByPrice:
		return "Price"
	case SortByChange:
		return "24h Change"
	case SortByLastUpdated:
		return "Last Updated"
	default:
		return field
	}
}
