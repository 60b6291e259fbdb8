// internal/server/validate.go
package server

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"remotehire/internal/common/errors"
)

const submissionSchema = `{
	"type": "object",
	"required": ["fullName", "email"],
	"properties": {
		"companyId":   {"type": "string"},
		"roleId":      {"type": "string"},
		"roleTitle":   {"type": "string"},
		"fullName":    {"type": "string", "minLength": 1, "maxLength": 200},
		"email":       {"type": "string", "format": "email", "maxLength": 320},
		"phone":       {"type": "string", "maxLength": 50},
		"nationality": {"type": "string", "maxLength": 100},
		"reference":   {"type": "string", "maxLength": 500},
		"blacklistAcknowledged": {"type": "boolean"},
		"cvLink":      {"type": "string", "maxLength": 2000},
		"audioLink":   {"type": "string", "maxLength": 2000}
	},
	"additionalProperties": false
}`

var submissionSchemaLoader = gojsonschema.NewStringLoader(submissionSchema)

// validateSubmission checks a raw submission payload against the schema
// before it is decoded, so malformed requests are rejected pre-mutation.
func validateSubmission(body []byte) error {
	result, err := gojsonschema.Validate(submissionSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.NewInvalidInputError("request body is not valid JSON")
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.NewInvalidInputError(strings.Join(details, "; "))
}
