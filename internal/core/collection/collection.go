package collection

import (
	"errors"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

// ErrUnknownCollection is returned for ids the tree has not listed.
var ErrUnknownCollection = errors.New("unknown collection")

// Collection is a named group of requests. Requests is nil until fetched.
type Collection struct {
	ID       ident.ID        `yaml:"id,omitempty" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	Version  string          `yaml:"version,omitempty" json:"-"`
	Requests []request.Draft `yaml:"requests" json:"-"`
}

// New creates an empty collection with a local id.
func New(name string) *Collection {
	return &Collection{
		ID:      ident.NewLocal(),
		Name:    name,
		Version: "1",
	}
}

// Add appends d to the collection, assigning a local id and the owning
// collection id when missing.
func (c *Collection) Add(d request.Draft) request.Draft {
	if d.ID.IsZero() {
		d.ID = ident.NewLocal()
	}
	d.CollectionID = c.ID
	c.Requests = append(c.Requests, d)
	return d
}

// Find returns the request with the given id.
func (c *Collection) Find(id ident.ID) (*request.Draft, bool) {
	for i := range c.Requests {
		if c.Requests[i].ID == id {
			return &c.Requests[i], true
		}
	}
	return nil, false
}

// Row is one line of the flattened display tree.
type Row struct {
	Collection Collection
	Request    *request.Draft
	Depth      int
	Expanded   bool
	Loaded     bool
	Path       string // "Collection/Request"
}

// IsCollection reports whether the row is a collection header.
func (r Row) IsCollection() bool { return r.Request == nil }
