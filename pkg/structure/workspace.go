package structure

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Workspace groups the authoritative structures of one session, one per family tag.
type Workspace struct {
	ID        string
	UpdatedAt time.Time

	// Sealed is the encrypted form of the structures, set by encrypting stores
	// on the copy they hand to the backend. A sealed workspace has no structures.
	Sealed []byte

	structures map[string]Structure
}

func NewWorkspace(id string) *Workspace {
	return &Workspace{ID: id, structures: make(map[string]Structure)}
}

// Get returns the structure owned by family.
func (w *Workspace) Get(family string) (Structure, bool) {
	s, ok := w.structures[family]
	return s, ok
}

// Put replaces the structure owned by family.
func (w *Workspace) Put(family string, s Structure) {
	w.structures[family] = s
}

// Remove drops the structure owned by family.
func (w *Workspace) Remove(family string) {
	delete(w.structures, family)
}

// Families returns the family tags with a structure, sorted.
func (w *Workspace) Families() []string {
	return slices.Sorted(maps.Keys(w.structures))
}

type workspaceJSON struct {
	ID         string              `json:"id"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Structures map[string]Envelope `json:"structures"`
	Sealed     []byte              `json:"sealed,omitempty"`
}

func (w *Workspace) MarshalJSON() ([]byte, error) {
	out := workspaceJSON{
		ID:         w.ID,
		UpdatedAt:  w.UpdatedAt,
		Structures: make(map[string]Envelope, len(w.structures)),
		Sealed:     w.Sealed,
	}
	for family, s := range w.structures {
		env, err := Encode(s)
		if err != nil {
			return nil, fmt.Errorf("family %s: %w", family, err)
		}
		out.Structures[family] = env
	}
	return json.Marshal(out)
}

func (w *Workspace) UnmarshalJSON(data []byte) error {
	var in workspaceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	w.ID = in.ID
	w.UpdatedAt = in.UpdatedAt
	w.Sealed = in.Sealed
	w.structures = make(map[string]Structure, len(in.Structures))
	for family, env := range in.Structures {
		s, err := Decode(env)
		if err != nil {
			return fmt.Errorf("family %s: %w", family, err)
		}
		w.structures[family] = s
	}
	return nil
}

// Clone returns a deep copy that shares nothing with w.
func (w *Workspace) Clone() (*Workspace, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	var out Workspace
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
