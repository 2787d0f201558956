package message

import (
	"github.com/google/uuid"
)

// Entity is the immutable identity of a message or aggregate. The id is
// generated once and never changes; the name is a category label.
type Entity struct {
	id   string
	name string
}

// NewEntity returns an entity with the given id and name.
func NewEntity(id, name string) Entity {
	return Entity{id: id, name: name}
}

// EntityFromName returns an entity with the given name and a fresh random id.
func EntityFromName(name string) Entity {
	return Entity{id: uuid.NewString(), name: name}
}

// DefaultEntity returns an anonymous entity with a fresh random id.
func DefaultEntity() Entity {
	return EntityFromName(AnonymousEntityName)
}

// ID returns the entity's unique identifier.
func (e Entity) ID() string { return e.id }

// Name returns the entity's category label.
func (e Entity) Name() string { return e.name }

// IsZero reports whether the entity was never initialized.
func (e Entity) IsZero() bool { return e.id == "" && e.name == "" }

// String implements fmt.Stringer.
func (e Entity) String() string {
	return e.name + "/" + e.id
}

type entityJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MarshalJSON encodes the entity as {"id": ..., "name": ...}.
func (e Entity) MarshalJSON() ([]byte, error) {
	return codec.Marshal(entityJSON{ID: e.id, Name: e.name})
}

// UnmarshalJSON decodes the {"id": ..., "name": ...} form.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw entityJSON
	if err := codec.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.id, e.name = raw.ID, raw.Name
	return nil
}
