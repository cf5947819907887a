package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/vibegpt/playground/cmd"
	"github.com/vibegpt/playground/pkg/playground"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&cmd.PlaygroundConfig{})
	schema.Title = "vibegpt Configuration"
	schema.Description = "Schema for ~/.vibegpt/config.yml."

	// No field is required; everything has a usable default.
	schema.Required = nil

	writeSchema("config.schema.json", schema)

	wire := &jsonschema.Reflector{FieldNameTag: "json"}
	jobSchema := wire.Reflect(&playground.JobRequest{})
	jobSchema.Title = "Inference Job Request"
	jobSchema.Description = "Payload submitted to the endpoint's /run route for one variant of a turn."
	writeSchema("jobrequest.schema.json", jobSchema)
}

func writeSchema(path string, schema *jsonschema.Schema) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", path, err)
	}
	log.Printf("Generated %s", path)
}
