// spec.go — встроенный документ OpenAPI.
package contract

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// RawSpec возвращает исходный YAML документа OpenAPI.
func RawSpec() []byte {
	return bytes.Clone(openAPIDocument)
}

// GetSwagger загружает и валидирует документ OpenAPI.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки OpenAPI: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("OpenAPI не прошёл валидацию: %w", err)
	}
	return doc, nil
}
