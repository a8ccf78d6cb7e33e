package controller

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parpalak/admin-yard-sub000/internal/form"
)

// autocompleteLimit caps one lookup response.
const autocompleteLimit = 20

// RegisterRoutes mounts the panel endpoints.
func (ctl *Controller) RegisterRoutes(app fiber.Router) {
	app.Get("/admin", ctl.Handle)
	app.Post("/admin", ctl.Handle)
	app.Get("/admin/autocomplete", ctl.Autocomplete)
}

// Autocomplete serves option lookups for autocomplete controls. The hash
// identifies a registered association; the client never names tables or
// columns.
func (ctl *Controller) Autocomplete(c *fiber.Ctx) error {
	hash := c.Query("hash")
	if hash == "" {
		return NewMissingParamError("hash")
	}
	ref, ok := ctl.index.Lookup(hash)
	if !ok {
		return NewInvalidRequestError("Unknown autocomplete source.")
	}

	opts, err := ctl.forms.AssociationOptions(c.Context(), ref)
	if err != nil {
		return err
	}

	query := strings.ToLower(c.Query("query"))
	matched := make([]form.Option, 0, autocompleteLimit)
	for _, o := range opts {
		if query != "" && !strings.Contains(strings.ToLower(o.Label), query) {
			continue
		}
		matched = append(matched, o)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return strings.HasPrefix(strings.ToLower(matched[i].Label), query) &&
			!strings.HasPrefix(strings.ToLower(matched[j].Label), query)
	})
	if len(matched) > autocompleteLimit {
		matched = matched[:autocompleteLimit]
	}
	return c.JSON(matched)
}
