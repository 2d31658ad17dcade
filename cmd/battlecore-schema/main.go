// Command battlecore-schema reflects model.BattleOptions and
// battlelog.Envelope into JSON Schema documents, the way the teacher's
// effects/catalog/cmd/schema tool reflects its own designer-authored config
// types. A caller validates a battle-start request, or a replay/spectator
// log stream, against these schemas before ever constructing a Battle.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/model"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write battle-options.schema.json and log-envelope.schema.json into")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "-out is required")
		os.Exit(1)
	}

	if err := writeSchema(outDir, "battle-options.schema.json", buildBattleOptionsSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "battlecore-schema: %v\n", err)
		os.Exit(1)
	}
	if err := writeSchema(outDir, "log-envelope.schema.json", buildLogEnvelopeSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "battlecore-schema: %v\n", err)
		os.Exit(1)
	}
}

func buildBattleOptionsSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	schema := reflector.ReflectFromType(reflect.TypeOf(model.BattleOptions{}))
	schema.Title = "BattleOptions"
	schema.Description = "Complete configuration needed to start a battle: format, sides, players, teams, and engine options (spec §6)."
	return schema
}

func buildLogEnvelopeSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	schema := reflector.ReflectFromType(reflect.TypeOf(battlelog.Envelope{}))
	schema.Title = "BattleLogEnvelope"
	schema.Description = "JSON transport form of one battle log entry, as streamed by cmd/battlecore-serve."
	return schema
}

func writeSchema(outDir, name string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outPath := filepath.Join(outDir, name)
	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
