package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldType は出力スキーマ上のフィールド型です。
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
	TypeNumber  FieldType = "number"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Field は出力スキーマの1フィールドの宣言です。
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string
	Items       FieldType // Type が array のときの要素型
	Properties  []Field   // Type が object のときの子フィールド
}

// gateField は true のときだけ他の必須フィールドを要求する判定フィールドです。
const gateField = "isVehicle"

// ResultFields は車両識別結果の宣言スキーマです。
var ResultFields = []Field{
	{Name: "isVehicle", Type: TypeBoolean, Required: true, Description: "True if the image contains a vehicle (car, truck, motorcycle, bus), false otherwise."},
	{Name: "make", Type: TypeString, Required: true, Description: "Manufacturer of the vehicle (e.g., Toyota, BMW, VinFast)."},
	{Name: "model", Type: TypeString, Required: true, Description: "Model name of the vehicle (e.g., Camry, X5, VF8)."},
	{Name: "yearRange", Type: TypeString, Required: true, Description: "Approximate generation or year range (e.g., 2020-2024)."},
	{Name: "type", Type: TypeString, Required: true, Description: "Body type of the vehicle (e.g., Sedan, SUV, Coupe, Truck)."},
	{Name: "color", Type: TypeString, Description: "Visual color of the vehicle."},
	{Name: "estimatedPrice", Type: TypeString, Description: "Estimated market price range in USD or VND."},
	{Name: "features", Type: TypeArray, Items: TypeString, Description: "List of visible features (e.g., Sunroof, LED headlights, Alloy wheels)."},
	{Name: "description", Type: TypeString, Required: true, Description: "A comprehensive summary of the vehicle in Vietnamese."},
	{Name: "performance", Type: TypeObject, Properties: []Field{
		{Name: "topSpeed", Type: TypeString, Description: "Estimated top speed (km/h)."},
		{Name: "acceleration", Type: TypeString, Description: "0-100 km/h time."},
	}},
	{Name: "confidenceScore", Type: TypeNumber, Required: true, Description: "Confidence level of the identification from 0 to 100."},
}

// RequiredNames は必須フィールド名を宣言順で返します。
func RequiredNames(fields []Field) []string {
	var names []string
	for _, f := range fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// JSONSchema はフィールド宣言を JSON Schema (object) に変換します。
// OpenAI の response_format など、JSON Schema を受け付けるプロバイダー向けです。
func JSONSchema(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = fieldSchema(f, false)
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if req := RequiredNames(fields); len(req) > 0 {
		schema["required"] = req
	}
	return schema
}

func fieldSchema(f Field, nullable bool) map[string]any {
	s := map[string]any{}
	if f.Description != "" {
		s["description"] = f.Description
	}
	if nullable {
		s["type"] = []string{string(f.Type), "null"}
	} else {
		s["type"] = string(f.Type)
	}
	switch f.Type {
	case TypeArray:
		s["items"] = map[string]any{"type": string(f.Items)}
	case TypeObject:
		props := make(map[string]any, len(f.Properties))
		for _, child := range f.Properties {
			props[child.Name] = fieldSchema(child, !child.Required)
		}
		s["properties"] = props
		if req := RequiredNames(f.Properties); len(req) > 0 {
			s["required"] = req
		}
	}
	return s
}

// validationSchema は受信結果の厳密検証用スキーマを組み立てます。
// 型は常に検証し、必須フィールドは isVehicle が true のときだけ非 null で要求します。
// null は欠落と同じ扱いです。
func validationSchema(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	strict := make(map[string]any)
	var conditional []string
	for _, f := range fields {
		if f.Name == gateField {
			props[f.Name] = fieldSchema(f, false)
			continue
		}
		props[f.Name] = fieldSchema(f, true)
		if f.Required {
			conditional = append(conditional, f.Name)
			strict[f.Name] = fieldSchema(f, false)
		}
	}
	schema := map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
		"required":   []string{gateField},
	}
	if len(conditional) > 0 {
		schema["if"] = map[string]any{
			"properties": map[string]any{gateField: map[string]any{"const": true}},
		}
		schema["then"] = map[string]any{
			"required":   conditional,
			"properties": strict,
		}
	}
	return schema
}

// schemaURL は作業ディレクトリに依存しない検証スキーマの識別子です。
const schemaURL = "mem://vehicle_analysis.json"

func compileSchema(data map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

var resultSchema = mustCompile(validationSchema(ResultFields))

func mustCompile(data map[string]any) *jsonschema.Schema {
	s, err := compileSchema(data)
	if err != nil {
		panic(fmt.Sprintf("invalid result schema: %v", err))
	}
	return s
}
