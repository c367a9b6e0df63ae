package harvest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Product is one product listed on an e-commerce page. Prices are kept as
// the digits found on the page, without currency symbols.
type Product struct {
	Name               string  `json:"name"`
	Price              string  `json:"price,omitempty"`
	SalePrice          string  `json:"salePrice,omitempty"`
	OriginalPrice      string  `json:"originalPrice,omitempty"`
	DiscountPercentage string  `json:"discountPercentage,omitempty"`
	ImageURL           string  `json:"imageUrl,omitempty"`
	ProductURL         string  `json:"productUrl,omitempty"`
	Availability       string  `json:"availability,omitempty"`
	Rating             float64 `json:"rating,omitempty"`
	ReviewsCount       int     `json:"reviewsCount,omitempty"`
	Description        string  `json:"description,omitempty"`
	Brand              string  `json:"brand,omitempty"`
	SKU                string  `json:"sku,omitempty"`
}

// Key identifies a product for deduplication: the lower-cased name and the
// product URL.
func (p *Product) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + p.ProductURL
}

var priceRE = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePrice reads the prices out of a price label. One number is the
// price. Two numbers are read as a sale price followed by the original
// price, and the lower one becomes the price.
func ParsePrice(text string) (price, sale, original string) {
	var nums []string
	for _, m := range priceRE.FindAllString(text, -1) {
		nums = append(nums, strings.ReplaceAll(m, ",", ""))
	}
	switch len(nums) {
	case 0:
		return "", "", ""
	case 1:
		return nums[0], "", ""
	}
	a, b := nums[0], nums[1]
	if amount(a) > amount(b) {
		a, b = b, a
	}
	return a, a, b
}

// DiscountPercentage returns the discount of sale against original,
// rounded to a whole percent, for example "25%". It returns "" unless both
// prices parse and sale is below original.
func DiscountPercentage(sale, original string) string {
	s, o := amount(sale), amount(original)
	if s <= 0 || o <= 0 || s >= o {
		return ""
	}
	return fmt.Sprintf("%.0f%%", (o-s)/o*100)
}

func amount(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatProducts renders one block per product, in order.
func FormatProducts(products []*Product) string {
	parts := make([]string, 0, len(products))
	for i, p := range products {
		var b strings.Builder
		fmt.Fprintf(&b, "[Product %d] %s", i+1, p.Name)
		line := func(label, v string) {
			if v != "" {
				fmt.Fprintf(&b, "\n  %s: %s", label, v)
			}
		}
		line("price", p.Price)
		line("original_price", p.OriginalPrice)
		line("discount", p.DiscountPercentage)
		line("brand", p.Brand)
		line("availability", p.Availability)
		if p.Rating > 0 {
			line("rating", strconv.FormatFloat(p.Rating, 'f', -1, 64))
		}
		if p.ReviewsCount > 0 {
			line("reviews", strconv.Itoa(p.ReviewsCount))
		}
		line("url", p.ProductURL)
		line("image", p.ImageURL)
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}
