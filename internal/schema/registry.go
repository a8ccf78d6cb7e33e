package schema

// Registry owns all entities by name. Associations reference foreign
// entities through it, so two entities pointing at each other never hold
// direct references. Populate it at startup, call Finalize once, then treat
// it as read-only; finalized registries are safe to share across requests.
type Registry struct {
	entities  []*Entity
	byName    map[string]*Entity
	finalized bool
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Entity{}}
}

// Add registers an entity. Duplicate names and a second default entity are
// configuration errors.
func (r *Registry) Add(e *Entity) error {
	if r.finalized {
		return configErr(e.Name, "", "registry is finalized")
	}
	if _, dup := r.byName[e.Name]; dup {
		return configErr(e.Name, "", "duplicate entity name")
	}
	if e.Default {
		for _, other := range r.entities {
			if other.Default {
				return configErr(e.Name, "", "default entity already set to %s", other.Name)
			}
		}
	}
	r.entities = append(r.entities, e)
	r.byName[e.Name] = e
	return nil
}

// MustAdd is Add for static schema definitions; it panics on a
// configuration error.
func (r *Registry) MustAdd(e *Entity) *Registry {
	if err := r.Add(e); err != nil {
		panic(err)
	}
	return r
}

// Get returns the entity with the given name, or nil.
func (r *Registry) Get(name string) *Entity {
	return r.byName[name]
}

// Default returns the default entity, or the first registered one.
func (r *Registry) Default() *Entity {
	for _, e := range r.entities {
		if e.Default {
			return e
		}
	}
	if len(r.entities) > 0 {
		return r.entities[0]
	}
	return nil
}

// All returns the entities in registration order.
func (r *Registry) All() []*Entity {
	return append([]*Entity(nil), r.entities...)
}

// Resolve returns the foreign entity of an association.
func (r *Registry) Resolve(a *Association) (*Entity, error) {
	e := r.byName[a.ForeignEntity]
	if e == nil {
		return nil, configErr(a.ForeignEntity, "", "association references unknown entity")
	}
	return e, nil
}

// Finalize validates each entity and every cross-entity reference in one
// pass, reporting the first inconsistency found. After Finalize the
// registry rejects further Add calls.
func (r *Registry) Finalize() error {
	for _, e := range r.entities {
		if err := e.validate(); err != nil {
			return err
		}
		for _, f := range e.FieldsWithForeignEntities() {
			foreign := r.byName[f.Association.ForeignEntity]
			if foreign == nil {
				return configErr(e.Name, f.Name, "association references unknown entity %q", f.Association.ForeignEntity)
			}
			if len(foreign.PrimaryKeyFields()) == 0 {
				return configErr(e.Name, f.Name, "association target %s has no primary key", foreign.Name)
			}
			if f.Association.Kind == OneToMany && foreign.Field(f.Association.InverseColumn) == nil {
				return configErr(e.Name, f.Name, "inverse column %q not found on %s", f.Association.InverseColumn, foreign.Name)
			}
		}
	}
	r.finalized = true
	return nil
}
