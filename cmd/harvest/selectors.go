package main

import (
	"os"

	"github.com/fwojciec/harvest"
	"gopkg.in/yaml.v3"
)

// loadSelectors reads named array selectors from a YAML mapping, keeping
// the order of the file:
//
//	news: .news-item
//	products:
//	  selector: .product
//	  limit: 20
//	  sub_selectors:
//	    title: h3
//	    image: img
//	  exclude_selectors: [.sponsored]
func loadSelectors(path string) ([]harvest.SelectorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "cannot read selectors file: %v", err)
	}
	return parseSelectors(data)
}

func parseSelectors(data []byte) ([]harvest.SelectorSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid selectors file: %v", err)
	}
	if len(doc.Content) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "selectors file is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, harvest.Errorf(harvest.EINVALID, "selectors file must map names to selectors (line %d)", root.Line)
	}

	specs := make([]harvest.SelectorSpec, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		var spec harvest.SelectorSpec
		switch value.Kind {
		case yaml.ScalarNode:
			spec.Selector = value.Value
		case yaml.MappingNode:
			if err := value.Decode(&spec); err != nil {
				return nil, harvest.Errorf(harvest.EINVALID, "invalid selector %q (line %d): %v", key.Value, value.Line, err)
			}
		default:
			return nil, harvest.Errorf(harvest.EINVALID, "invalid selector %q (line %d)", key.Value, value.Line)
		}
		spec.Name = key.Value
		specs = append(specs, spec)
	}
	return specs, nil
}
