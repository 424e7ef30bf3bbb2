package concept

import "strings"

// RefKind tells how a reference points at its target
type RefKind string

const (
	ByID    RefKind = "id"
	ByTitle RefKind = "title"
)

// Reference is the canonical form of one relatedConcepts/prerequisites element.
// Title is only set on ByID references that were stored as {id, title}; it is used
// when the id no longer resolves.
type Reference struct {
	Kind  RefKind `json:"kind"`
	Value string  `json:"value"`
	Title string  `json:"title,omitempty"`
}

// IDRef builds a reference by id
func IDRef(id, title string) Reference {
	return Reference{Kind: ByID, Value: id, Title: title}
}

// TitleRef builds a reference by title
func TitleRef(title string) Reference {
	return Reference{Kind: ByTitle, Value: title}
}

// DisplayTitle returns the best title known for the reference, which may be empty
func (r Reference) DisplayTitle() string {
	if r.Kind == ByTitle {
		return r.Value
	}
	return r.Title
}

// Matches reports whether the reference points at c, by id or by
// case- and whitespace-insensitive title.
func (r Reference) Matches(c *Concept) bool {
	if c == nil {
		return false
	}
	if r.Kind == ByID && r.Value == c.ID {
		return true
	}
	title := NormalizeTitle(r.DisplayTitle())
	return title != "" && title == NormalizeTitle(c.Title)
}

// NormalizeReferences turns a raw relationship field into references. It never
// fails: malformed input yields no references.
func NormalizeReferences(raw []byte) []Reference {
	return ParseListField(raw).References()
}

// referenceFromFields applies the element rules: a non-empty id wins, then a
// non-empty title, otherwise the element is dropped.
func referenceFromFields(id, title string) (Reference, bool) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id != "" {
		return IDRef(id, title), true
	}
	if title != "" {
		return TitleRef(title), true
	}
	return Reference{}, false
}
