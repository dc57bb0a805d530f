package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsoncmp/internal/errors" // Custom errors package
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/tidwall/gjson"
)

// ParseBytes converts raw JSON text into a models.JSONValue.
// Object keys keep their document order; a duplicated key keeps its first
// position and the last value, the way JavaScript's JSON.parse behaves.
func ParseBytes(data []byte) (models.JSONValue, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if !gjson.ValidBytes(data) {
		return nil, describeInvalid(data)
	}
	return build(gjson.ParseBytes(data)), nil
}

// describeInvalid asks encoding/json for the offset of the first syntax error
// so the message can point at it.
func describeInvalid(data []byte) error {
	var scratch interface{}
	err := json.Unmarshal(data, &scratch)

	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	return errors.NewParsingError("failed to decode JSON", errors.ErrInvalidJSON)
}

// build converts a validated gjson result into our model types
func build(res gjson.Result) models.JSONValue {
	switch res.Type {
	case gjson.Null:
		return models.JSONNull{}
	case gjson.False:
		return models.JSONBool(false)
	case gjson.True:
		return models.JSONBool(true)
	case gjson.Number:
		return models.JSONNumber{Raw: res.Raw, Value: res.Num}
	case gjson.String:
		return models.JSONString(res.Str)
	}

	if res.IsArray() {
		arr := models.JSONArray{}
		res.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, build(value))
			return true
		})
		return arr
	}

	obj := models.NewObject()
	res.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.Str, build(value))
		return true
	})
	return obj
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.JSONValue, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// ParseSide parses one of the two compared documents. Failures are tagged
// with the side so both can be reported independently.
func ParseSide(side models.Side, text string) (models.JSONValue, error) {
	value, err := ParseBytes([]byte(text))
	if err != nil {
		return nil, &errors.SideError{Side: string(side), Err: err}
	}
	return value, nil
}

// ReadFile loads the raw text of a JSON file, reporting missing or empty
// files as input errors.
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return data, nil
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.JSONValue, error) {
	data, err := ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}
