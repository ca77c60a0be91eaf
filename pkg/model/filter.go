package model

// FilterOp defines the supported filter operators.
type FilterOp string

const (
	OpEq FilterOp = "==" // Equal
	OpNe FilterOp = "!=" // Not equal
	OpIn FilterOp = "in" // Value in array
)

// IDField is the document field that holds the external document id.
const IDField = "_id"

// IsValid checks if the operator is valid.
func (op FilterOp) IsValid() bool {
	switch op {
	case OpEq, OpNe, OpIn:
		return true
	}
	return false
}

// Filters is a slice of Filter.
type Filters []Filter

// Filter represents a match condition used by model gateways.
type Filter struct {
	Field string      `json:"field"`
	Op    FilterOp    `json:"op"`
	Value interface{} `json:"value"`
}

// Validate checks if the filter is valid.
func (f Filter) Validate() bool {
	if f.Field == "" {
		return false
	}
	return f.Op.IsValid()
}

// IDFilter matches the single document whose id equals id.
func IDFilter(id Identity) Filters {
	return Filters{{Field: IDField, Op: OpEq, Value: id}}
}

// IdentityOf returns the id targeted by an IDFilter, if the filters contain one.
func (fs Filters) IdentityOf() (Identity, bool) {
	for _, f := range fs {
		if f.Field == IDField && f.Op == OpEq {
			return f.Value, true
		}
	}
	return nil, false
}
