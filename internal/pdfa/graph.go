package pdfa

import (
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Typed accessors over the pdfcpu object graph. Each returns (value,
// ok) so the "skip silently when the shape is unexpected" policy is a
// single visible branch at the call site instead of scattered type
// guards.

func dictEntry(xref *pdfmodel.XRefTable, d types.Dict, key string) (types.Dict, bool) {
	obj, found := d.Find(key)
	if !found {
		return nil, false
	}
	dict, err := xref.DereferenceDict(obj)
	if err != nil || dict == nil {
		return nil, false
	}
	return dict, true
}

func arrayEntry(xref *pdfmodel.XRefTable, d types.Dict, key string) (types.Array, bool) {
	obj, found := d.Find(key)
	if !found {
		return nil, false
	}
	arr, err := xref.DereferenceArray(obj)
	if err != nil || arr == nil {
		return nil, false
	}
	return arr, true
}

func streamEntry(xref *pdfmodel.XRefTable, d types.Dict, key string) (*types.StreamDict, bool) {
	obj, found := d.Find(key)
	if !found {
		return nil, false
	}
	resolved, err := xref.Dereference(obj)
	if err != nil {
		return nil, false
	}
	sd, ok := resolved.(types.StreamDict)
	if !ok {
		return nil, false
	}
	return &sd, true
}

// embeddedFileSpecRef walks Names -> EmbeddedFiles -> Names[1], the
// file-spec reference that follows the name string at index 0. This is
// the same walk the embedder performs when duplicating the reference
// into the catalog's /AF array.
func embeddedFileSpecRef(xref *pdfmodel.XRefTable, catalog types.Dict) (*types.IndirectRef, bool) {
	names, ok := dictEntry(xref, catalog, "Names")
	if !ok {
		return nil, false
	}
	embedded, ok := dictEntry(xref, names, "EmbeddedFiles")
	if !ok {
		return nil, false
	}
	pairs, ok := arrayEntry(xref, embedded, "Names")
	if !ok || len(pairs) < 2 {
		return nil, false
	}
	ref, ok := pairs[1].(types.IndirectRef)
	if !ok {
		return nil, false
	}
	return &ref, true
}
