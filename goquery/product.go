package goquery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/harvest"
)

// Default field selectors for CSS product extraction, relative to the
// product element.
const (
	DefaultNameSelector  = "h1, h2, h3, h4, .product-name, .product-title, .title, .name"
	DefaultPriceSelector = ".price, .product-price, [itemprop=price], .amount"
	DefaultImageSelector = "img"
	DefaultLinkSelector  = "a[href]"
)

// ProductSelectors configures CSS product extraction. Empty field
// selectors take the package defaults.
type ProductSelectors struct {
	Product string
	Name    string
	Price   string
	Image   string
	Link    string
}

// StructuredProducts returns the products described by the page's JSON-LD
// scripts, in document order. Nodes typed Product or ProductModel are
// collected from top-level objects, arrays and @graph lists. Products
// without a name and scripts that do not parse are skipped.
func StructuredProducts(doc *goquery.Document, baseURL string) []*harvest.Product {
	var products []*harvest.Product
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return
		}
		for _, node := range productNodes(data) {
			if p := structuredProduct(node, baseURL); p != nil {
				products = append(products, p)
			}
		}
	})
	return products
}

func productNodes(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		var nodes []map[string]any
		for _, item := range v {
			nodes = append(nodes, productNodes(item)...)
		}
		return nodes
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			return productNodes(graph)
		}
		if hasType(v["@type"], "Product", "ProductModel") {
			return []map[string]any{v}
		}
	}
	return nil
}

func hasType(t any, names ...string) bool {
	var types []string
	switch v := t.(type) {
	case string:
		types = []string{v}
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok {
				types = append(types, s)
			}
		}
	}
	for _, have := range types {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

func structuredProduct(node map[string]any, baseURL string) *harvest.Product {
	p := &harvest.Product{
		Name:        collapse(str(node["name"])),
		Description: collapse(str(node["description"])),
		SKU:         str(node["sku"]),
		ProductURL:  ResolveURL(baseURL, str(node["url"])),
	}
	if p.Name == "" {
		return nil
	}
	switch b := node["brand"].(type) {
	case string:
		p.Brand = collapse(b)
	case map[string]any:
		p.Brand = collapse(str(b["name"]))
	}

	offers := node["offers"]
	if list, ok := offers.([]any); ok && len(list) > 0 {
		offers = list[0]
	}
	if o, ok := offers.(map[string]any); ok {
		price := str(o["price"])
		if price == "" {
			price = str(o["lowPrice"])
		}
		p.Price, _, _ = harvest.ParsePrice(price)
		p.Availability = availability(str(o["availability"]))
		if u := str(o["url"]); u != "" {
			p.ProductURL = ResolveURL(baseURL, u)
		}
	}

	image := node["image"]
	if list, ok := image.([]any); ok && len(list) > 0 {
		image = list[0]
	}
	if m, ok := image.(map[string]any); ok {
		image = m["url"]
	}
	p.ImageURL = ResolveURL(baseURL, str(image))

	if r, ok := node["aggregateRating"].(map[string]any); ok {
		p.Rating, _ = strconv.ParseFloat(str(r["ratingValue"]), 64)
		count := str(r["reviewCount"])
		if count == "" {
			count = str(r["ratingCount"])
		}
		p.ReviewsCount, _ = strconv.Atoi(count)
	}
	return p
}

// availability turns a schema.org URL such as
// "https://schema.org/InStock" into its last path segment.
func availability(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// str renders a JSON scalar as text. Numbers keep their shortest form.
func str(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// HTMLProducts returns one product per element matching sel.Product, in
// document order. Elements without a name are skipped. Returns ESELECTOR
// when any selector fails to compile.
func HTMLProducts(doc *goquery.Document, baseURL string, sel ProductSelectors) ([]*harvest.Product, error) {
	product, err := Compile(sel.Product)
	if err != nil {
		return nil, err
	}
	compile := func(s, def string) (cascadia.Selector, error) {
		if s == "" {
			s = def
		}
		return Compile(s)
	}
	name, err := compile(sel.Name, DefaultNameSelector)
	if err != nil {
		return nil, err
	}
	price, err := compile(sel.Price, DefaultPriceSelector)
	if err != nil {
		return nil, err
	}
	image, err := compile(sel.Image, DefaultImageSelector)
	if err != nil {
		return nil, err
	}
	link, err := compile(sel.Link, DefaultLinkSelector)
	if err != nil {
		return nil, err
	}

	var products []*harvest.Product
	doc.FindMatcher(product).Each(func(_ int, el *goquery.Selection) {
		p := &harvest.Product{Name: collapse(el.FindMatcher(name).First().Text())}
		if p.Name == "" {
			return
		}
		p.Price, p.SalePrice, p.OriginalPrice = harvest.ParsePrice(collapse(el.FindMatcher(price).First().Text()))
		p.DiscountPercentage = harvest.DiscountPercentage(p.SalePrice, p.OriginalPrice)
		if img := el.FindMatcher(image).First(); img.Length() > 0 {
			p.ImageURL = imageURL(img, baseURL)
		}
		if a := el.FindMatcher(link).First(); a.Length() > 0 {
			p.ProductURL = linkURL(a, baseURL)
		} else if goquery.NodeName(el) == "a" {
			p.ProductURL = linkURL(el, baseURL)
		}
		products = append(products, p)
	})
	return products, nil
}
