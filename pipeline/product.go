package pipeline

import (
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
)

// Ensure ProductPipeline implements harvest.Pipeline.
var _ harvest.Pipeline = (*ProductPipeline)(nil)

// Product extraction methods reported in metadata.
const (
	MethodStructuredData = "structured_data"
	MethodCSSSelector    = "css_selector"
	MethodNone           = "none"
)

// ProductPipeline lists the products on an e-commerce page. JSON-LD
// structured data is preferred; the CSS selectors are only consulted when
// the page carries none. Products repeating a name and URL are dropped.
type ProductPipeline struct {
	Request harvest.ProductRequest

	// MaxProducts caps the product count. Zero means no cap.
	MaxProducts int
}

// NewProductPipeline returns a ProductPipeline for req.
func NewProductPipeline(req harvest.ProductRequest, maxProducts int) *ProductPipeline {
	return &ProductPipeline{Request: req, MaxProducts: maxProducts}
}

// Name returns "product".
func (p *ProductPipeline) Name() string {
	return "product"
}

// Validate checks the request.
func (p *ProductPipeline) Validate() error {
	return p.Request.Validate()
}

// Process validates the request and extracts the products of doc. An
// invalid selector is reported in SelectorErrors and yields no products.
func (p *ProductPipeline) Process(doc *harvest.RawDocument) (*harvest.Extraction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d, err := goquery.ParseHTML(doc.HTML)
	if err != nil {
		return nil, err
	}

	var errs []error
	method := MethodNone
	products := goquery.StructuredProducts(d, doc.URL)
	if len(products) > 0 {
		method = MethodStructuredData
	} else if p.Request.ProductSelector != "" {
		products, err = goquery.HTMLProducts(d, doc.URL, goquery.ProductSelectors{
			Product: p.Request.ProductSelector,
			Name:    p.Request.NameSelector,
			Price:   p.Request.PriceSelector,
			Image:   p.Request.ImageSelector,
			Link:    p.Request.LinkSelector,
		})
		if err != nil {
			errs = append(errs, err)
		}
		if len(products) > 0 {
			method = MethodCSSSelector
		}
	}

	found := len(products)
	products = unique(products, p.limit())

	content := harvest.FormatProducts(products)
	return &harvest.Extraction{
		Title:     goquery.Title(d),
		Content:   content,
		WordCount: harvest.WordCount(content),
		Metadata: map[string]any{
			"extraction_mode":      "ecommerce_products",
			"extraction_method":    method,
			"product_selector":     p.Request.ProductSelector,
			"products":             products,
			"total_products":       len(products),
			"products_found":       found,
			"original_html_length": len(doc.HTML),
			"selector_errors":      len(errs),
		},
		SelectorErrors: errs,
	}, nil
}

func (p *ProductPipeline) limit() int {
	if p.Request.Limit > 0 && (p.MaxProducts <= 0 || p.Request.Limit < p.MaxProducts) {
		return p.Request.Limit
	}
	return p.MaxProducts
}

// unique drops products whose Key was seen before and keeps at most limit
// products. limit <= 0 means no cap.
func unique(products []*harvest.Product, limit int) []*harvest.Product {
	seen := make(map[string]bool, len(products))
	out := make([]*harvest.Product, 0, len(products))
	for _, pr := range products {
		if limit > 0 && len(out) == limit {
			break
		}
		if k := pr.Key(); !seen[k] {
			seen[k] = true
			out = append(out, pr)
		}
	}
	return out
}
