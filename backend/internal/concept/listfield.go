package concept

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedList marks a relationship field that is neither an array nor a string
var ErrMalformedList = errors.New("malformed list field")

var (
	jsonNull       = []byte("null")
	jsonEmptyArray = []byte("[]")
)

// ListField holds the raw JSON of a relationship list (relatedConcepts, prerequisites).
// Elements are either bare title strings or {id, title} objects, possibly mixed.
// The raw bytes are kept so that rewrites leave untouched elements as they were.
type ListField []byte

// MarshalJSON emits the stored JSON, or [] when there is nothing valid to emit
func (f ListField) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(f)) == 0 || !json.Valid(f) {
		return jsonEmptyArray, nil
	}
	return []byte(f), nil
}

// UnmarshalJSON stores the element verbatim; interpretation happens in ParseListField
func (f *ListField) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*f = nil
		return nil
	}
	*f = append((*f)[:0], data...)
	return nil
}

// ListItem is one element of a parsed list field
type ListItem struct {
	Raw   json.RawMessage
	Ref   Reference
	Valid bool // false for elements carrying neither id nor title
}

// ListResult is the outcome of ParseListField. Err is set only for malformed
// input, in which case Items is empty.
type ListResult struct {
	Items []ListItem
	Err   error
}

// References returns the valid references in list order
func (r ListResult) References() []Reference {
	refs := make([]Reference, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Valid {
			refs = append(refs, item.Ref)
		}
	}
	return refs
}

// ParseListField is the single place that understands the stored list encodings:
// a JSON array, a JSON string holding a JSON array (list persisted as text), a
// plain string naming one title, or null/empty. Anything else is malformed.
func ParseListField(raw []byte) ListResult {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return ListResult{}
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return malformed(err)
		}
		items := make([]ListItem, 0, len(elems))
		for _, elem := range elems {
			ref, ok := parseElement(elem)
			items = append(items, ListItem{Raw: elem, Ref: ref, Valid: ok})
		}
		return ListResult{Items: items}

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return malformed(err)
		}
		inner := strings.TrimSpace(s)
		if strings.HasPrefix(inner, "[") {
			return ParseListField([]byte(inner))
		}
		ref, ok := referenceFromFields("", inner)
		if !ok {
			return ListResult{}
		}
		item := ListItem{Raw: json.RawMessage(trimmed), Ref: ref, Valid: true}
		return ListResult{Items: []ListItem{item}}
	}

	return malformed(fmt.Errorf("unexpected value starting with %q", trimmed[0]))
}

// Parse is shorthand for ParseListField(f)
func (f ListField) Parse() ListResult {
	return ParseListField(f)
}

// References is shorthand for NormalizeReferences(f)
func (f ListField) References() []Reference {
	return ParseListField(f).References()
}

// Contains reports whether any element of the list points at c
func (f ListField) Contains(c *Concept) bool {
	for _, ref := range f.References() {
		if ref.Matches(c) {
			return true
		}
	}
	return false
}

// Append returns a copy of the list with ref added as the last element.
// A malformed list is replaced rather than extended.
func (f ListField) Append(ref Reference) ListField {
	res := f.Parse()
	elems := make([][]byte, 0, len(res.Items)+1)
	for _, item := range res.Items {
		elems = append(elems, item.Raw)
	}
	elems = append(elems, encodeReference(ref))
	return joinElements(elems)
}

// Remove returns a copy of the list without the elements pointing at c, and
// how many were removed. Elements that carry neither id nor title are kept.
func (f ListField) Remove(c *Concept) (ListField, int) {
	res := f.Parse()
	elems := make([][]byte, 0, len(res.Items))
	removed := 0
	for _, item := range res.Items {
		if item.Valid && item.Ref.Matches(c) {
			removed++
			continue
		}
		elems = append(elems, item.Raw)
	}
	return joinElements(elems), removed
}

// Dedupe returns a copy of the list without elements pointing at owner and
// without repeats of an earlier element (same id, or same normalized title).
// Malformed lists and lists with nothing to drop are returned unchanged.
func (f ListField) Dedupe(owner *Concept) ListField {
	res := f.Parse()
	if res.Err != nil {
		return f
	}
	elems := make([][]byte, 0, len(res.Items))
	kept := make([]Reference, 0, len(res.Items))
	dropped := 0
	for _, item := range res.Items {
		if item.Valid && (item.Ref.Matches(owner) || sameTargetAsAny(item.Ref, kept)) {
			dropped++
			continue
		}
		if item.Valid {
			kept = append(kept, item.Ref)
		}
		elems = append(elems, item.Raw)
	}
	if dropped == 0 {
		return f
	}
	return joinElements(elems)
}

func sameTargetAsAny(ref Reference, refs []Reference) bool {
	title := NormalizeTitle(ref.DisplayTitle())
	for _, other := range refs {
		if ref.Kind == ByID && other.Kind == ByID && ref.Value == other.Value {
			return true
		}
		if title != "" && title == NormalizeTitle(other.DisplayTitle()) {
			return true
		}
	}
	return false
}

// NewListField encodes references the way fresh writes store them: ByID as
// {"id","title"} objects, ByTitle as bare strings.
func NewListField(refs ...Reference) ListField {
	elems := make([][]byte, 0, len(refs))
	for _, ref := range refs {
		elems = append(elems, encodeReference(ref))
	}
	return joinElements(elems)
}

// ListFieldFrom encodes an already-decoded value (e.g. []interface{} or string)
// so it can go through ParseListField. Values that cannot be encoded give an empty list.
func ListFieldFrom(v interface{}) ListField {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return ListField(data)
}

func parseElement(raw json.RawMessage) (Reference, bool) {
	var title string
	if err := json.Unmarshal(raw, &title); err == nil {
		return referenceFromFields("", title)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Reference{}, false
	}
	return referenceFromFields(scalarString(obj["id"]), scalarString(obj["title"]))
}

// scalarString accepts string and numeric ids; everything else counts as absent
func scalarString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

type storedRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func encodeReference(ref Reference) []byte {
	var v interface{} = ref.Value
	if ref.Kind == ByID {
		v = storedRef{ID: ref.Value, Title: ref.Title}
	}
	data, _ := json.Marshal(v)
	return data
}

func joinElements(elems [][]byte) ListField {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(elems, []byte(",")))
	buf.WriteByte(']')
	return ListField(buf.Bytes())
}

func malformed(err error) ListResult {
	return ListResult{Err: fmt.Errorf("%w: %v", ErrMalformedList, err)}
}
