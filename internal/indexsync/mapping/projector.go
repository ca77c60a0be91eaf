package mapping

import "github.com/syntrixbase/docsync/pkg/model"

// Projector builds index documents from records.
type Projector struct {
	resolver *Resolver
}

// NewProjector creates a Projector. A nil resolver uses NewResolver().
func NewProjector(resolver *Resolver) *Projector {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Projector{resolver: resolver}
}

// Project applies fm to rec. An empty map yields a shallow copy of all attributes.
// The first failing field aborts the whole projection; no partial document is returned.
func (p *Projector) Project(rec model.Record, fm FieldMap) (model.Document, error) {
	if fm.IsEmpty() {
		attrs := rec.Attributes()
		doc := make(model.Document, len(attrs))
		for k, v := range attrs {
			doc[k] = v
		}
		return doc, nil
	}

	doc := make(model.Document, len(fm.entries))
	for _, e := range fm.entries {
		v, err := p.resolver.Resolve(rec, e.Output, e.Rule)
		if err != nil {
			return nil, err
		}
		doc[e.Output] = v
	}
	return doc, nil
}
