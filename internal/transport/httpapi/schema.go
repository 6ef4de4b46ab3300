package httpapi

import (
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var errSchemaNotFound = errs.New(errs.KindNotFound, "schema not found")

// requestSchemas describes every JSON request body the API accepts.
var requestSchemas = sync.OnceValue(func() map[string]*jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return map[string]*jsonschema.Schema{
		"register":       r.Reflect(&registerRequest{}),
		"login":          r.Reflect(&loginRequest{}),
		"rating":         r.Reflect(&ratingRequest{}),
		"witness":        r.Reflect(&witnessRequest{}),
		"comment":        r.Reflect(&commentRequest{}),
		"crash":          r.Reflect(&createCrashRequest{}),
		"search":         r.Reflect(&searchRequest{}),
		"vehicle-lookup": r.Reflect(&vehicleLookupRequest{}),
	}
})

func (h *Handler) listSchemas(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(requestSchemas()))
	for name := range requestSchemas() {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string][]string{"schemas": names})
}

func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	schema, ok := requestSchemas()[chi.URLParam(r, "name")]
	if !ok {
		writeError(w, r, errSchemaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}
