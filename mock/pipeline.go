package mock

import "github.com/fwojciec/harvest"

var _ harvest.Pipeline = (*Pipeline)(nil)

// Pipeline is a mock implementation of harvest.Pipeline.
type Pipeline struct {
	NameFn     func() string
	ValidateFn func() error
	ProcessFn  func(doc *harvest.RawDocument) (*harvest.Extraction, error)
}

func (p *Pipeline) Name() string {
	return p.NameFn()
}

func (p *Pipeline) Validate() error {
	return p.ValidateFn()
}

func (p *Pipeline) Process(doc *harvest.RawDocument) (*harvest.Extraction, error) {
	return p.ProcessFn(doc)
}
