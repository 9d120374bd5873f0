package manifest

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	errs "github.com/wippyai/dtype-runtime/errors"
)

// Schema generates the JSON schema for extension manifests. Tooling embeds
// it so manifest errors surface at authoring time instead of load time.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Manifest{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.PhaseManifest, errs.KindInvalidData, err, "marshal schema")
	}
	return data, nil
}
