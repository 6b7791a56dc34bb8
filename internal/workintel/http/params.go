package http

import (
	"net/http"

	"github.com/aussiebroadwan/workintel/pkg/idx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// pathID reads a ULID path parameter. Malformed ids answer 404 without
// touching the store.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := idx.Parse(r.PathValue(name))
	if err != nil {
		sdk.ErrNotFound.WriteError(w)
		return "", false
	}
	return id.String(), true
}
