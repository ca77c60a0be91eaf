package indexsync

import "github.com/syntrixbase/docsync/pkg/model"

// IdentityOf returns the record's primary key, unchanged, as the document identity.
func IdentityOf(rec model.Record) model.Identity {
	return rec.PrimaryKey()
}
