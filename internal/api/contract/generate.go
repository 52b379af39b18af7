// Пакет contract — типы и chi-маршрутизация HTTP API по контракту openapi.yaml.
// contract.gen.go генерируется oapi-codegen из openapi.yaml и вручную не правится,
// встраивание документа и его загрузка — в spec.go.
package contract

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 -config oapi-codegen.yaml openapi.yaml
