package form

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// Autocomplete extends the single-choice contract with a server-fetched
// option list. The widget queries the lookup endpoint with a hash that
// identifies which association it serves, so a client can never substitute
// an arbitrary SQL expression. Posted values are checked against the
// option set computed at validation time, exactly like a select.
type Autocomplete struct {
	*choiceControl
	hash string
}

// SetHash attaches the association hash the widget sends to the lookup
// endpoint.
func (c *Autocomplete) SetHash(hash string) {
	c.hash = hash
}

func (c *Autocomplete) Render() string {
	label := ""
	for _, o := range c.options {
		if o.Value == c.raw {
			label = o.Label
			break
		}
	}
	return fmt.Sprintf(
		`<input type="text" name="%s" value="%s" data-label="%s" data-autocomplete-hash="%s">`,
		html.EscapeString(c.name), html.EscapeString(c.raw), html.EscapeString(label), c.hash)
}

// AssociationHash derives the opaque identifier of one association for the
// autocomplete endpoint. HMAC keyed by a server-side secret: clients can
// replay hashes the server issued but cannot mint new ones.
func AssociationHash(secret, entity, field string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(entity + "|" + field))
	return hex.EncodeToString(mac.Sum(nil))[:16]
}

// AssocRef names one many-to-one association.
type AssocRef struct {
	Entity string
	Field  string
}

// AutocompleteIndex resolves issued hashes back to the association they
// identify. Built once from the finalized registry.
type AutocompleteIndex struct {
	refs map[string]AssocRef
}

// BuildAutocompleteIndex walks every many-to-one field bound to an
// autocomplete control and indexes its hash.
func BuildAutocompleteIndex(reg *schema.Registry, secret string) *AutocompleteIndex {
	idx := &AutocompleteIndex{refs: map[string]AssocRef{}}
	for _, e := range reg.All() {
		for _, f := range e.FieldsWithForeignEntities() {
			if f.Association.Kind != schema.ManyToOne || f.Control != ControlAutocomplete {
				continue
			}
			hash := AssociationHash(secret, e.Name, f.Name)
			idx.refs[hash] = AssocRef{Entity: e.Name, Field: f.Name}
		}
	}
	return idx
}

// Lookup resolves a hash to its association.
func (i *AutocompleteIndex) Lookup(hash string) (AssocRef, bool) {
	ref, ok := i.refs[hash]
	return ref, ok
}
