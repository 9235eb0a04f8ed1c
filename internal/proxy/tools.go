package proxy

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/tmessner/responsum/internal/catalog"
	"github.com/tmessner/responsum/internal/toolschema"
)

// toolList is the wire shape of the tool catalog endpoint.
type toolList struct {
	Object string            `json:"object"`
	Data   []toolschema.Tool `json:"data"`
}

// The catalog is static, so it is reflected and normalized once.
var catalogTools = sync.OnceValues(func() ([]toolschema.Tool, error) {
	return toolschema.Normalize(catalog.Descriptors())
})

// toolsHandler serves the built-in tool catalog in its normalized strict form,
// so clients can attach the definitions to requests without re-normalizing.
func toolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tools, err := catalogTools()
		if err != nil {
			// catalog names are static and unique; reaching this is a bug
			slog.ErrorContext(r.Context(), "tool catalog normalization failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, toolList{Object: "list", Data: tools}, http.StatusOK)
	}
}
