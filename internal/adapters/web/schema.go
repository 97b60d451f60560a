package web

import (
	"net/http"
	"reflect"
	"strings"

	"garment-tracker/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// schemaEntities maps the path segment of /api/schema/{entity} to the record it describes.
var schemaEntities = map[string]any{
	"products":     core.ProductReference{},
	"seamstresses": core.Seamstress{},
	"fabrics":      core.Fabric{},
	"orders":       core.ProductionOrder{},
	"splits":       core.OrderSplit{},
	"items":        core.OrderItem{},
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func generateSchema(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					Type:        "string",
					Pattern:     `^-?[0-9]+(\.[0-9]+)?$`,
					Description: "decimal number of rolls",
				}
			}
			return nil
		},
	}
	return reflector.Reflect(v)
}

// apiSchema publishes the JSON Schema of a record type for clients and seed tooling.
func (h *Handler) apiSchema(w http.ResponseWriter, r *http.Request) {
	entity := strings.ToLower(chi.URLParam(r, "entity"))
	v, ok := schemaEntities[entity]
	if !ok {
		writeError(w, r, "unknown entity: "+entity, "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, generateSchema(v))
}
