package mongo

import (
	"fmt"
	"reflect"

	"github.com/syntrixbase/docsync/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
)

// makeFilterBSON translates filters into a MongoDB query. An empty filter set is
// rejected so a malformed call can never touch the whole collection.
func makeFilterBSON(filters model.Filters) (bson.M, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("mongo filter cannot be empty: %w", model.ErrGateway)
	}

	bsonFilter := bson.M{}
	for _, f := range filters {
		if !f.Validate() {
			return nil, fmt.Errorf("invalid filter on %q (op %q): %w", f.Field, f.Op, model.ErrGateway)
		}
		value := f.Value
		if f.Field == model.IDField {
			var err error
			if value, err = idFilterValue(f.Op, value); err != nil {
				return nil, err
			}
		}
		bsonFilter[f.Field] = bson.M{mapOp(f.Op): value}
	}
	return bsonFilter, nil
}

// idFilterValue formats ids the same way toBSON stores them.
func idFilterValue(op model.FilterOp, value any) (any, error) {
	if op != model.OpIn {
		return formatID(value)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("filter %q in requires a list: %w", model.IDField, model.ErrGateway)
	}
	keys := make([]string, rv.Len())
	for i := range keys {
		key, err := formatID(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}

func formatID(id model.Identity) (string, error) {
	key, err := model.FormatIdentity(id)
	if err != nil {
		return "", fmt.Errorf("mongo id: %w", err)
	}
	return key, nil
}

func mapOp(op model.FilterOp) string {
	switch op {
	case model.OpEq:
		return "$eq"
	case model.OpNe:
		return "$ne"
	case model.OpIn:
		return "$in"
	default:
		return ""
	}
}
