package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type AttributeKind int

const (
	AttributeString AttributeKind = iota
	AttributeNumber
	AttributeStrings
)

func (k AttributeKind) String() string {
	switch k {
	case AttributeString:
		return "string"
	case AttributeNumber:
		return "number"
	case AttributeStrings:
		return "strings"
	default:
		return "unknown"
	}
}

// AttributeValue holds exactly one of a string, a number or a list of strings
type AttributeValue struct {
	kind    AttributeKind
	text    string
	number  decimal.Decimal
	strings []string
}

func StringValue(s string) AttributeValue {
	return AttributeValue{kind: AttributeString, text: s}
}

func NumberValue(n decimal.Decimal) AttributeValue {
	return AttributeValue{kind: AttributeNumber, number: n}
}

func StringsValue(values ...string) AttributeValue {
	return AttributeValue{kind: AttributeStrings, strings: append([]string(nil), values...)}
}

func (v AttributeValue) Kind() AttributeKind {
	return v.kind
}

// Number returns the numeric variant; ok is false for the other kinds
func (v AttributeValue) Number() (decimal.Decimal, bool) {
	return v.number, v.kind == AttributeNumber
}

// Strings returns the value as a list: a single string becomes a one-element list
func (v AttributeValue) Strings() []string {
	switch v.kind {
	case AttributeString:
		return []string{v.text}
	case AttributeStrings:
		return append([]string(nil), v.strings...)
	default:
		return nil
	}
}

func (v AttributeValue) String() string {
	switch v.kind {
	case AttributeNumber:
		return v.number.String()
	case AttributeStrings:
		return strings.Join(v.strings, ", ")
	default:
		return v.text
	}
}

// Matches compares case-insensitively for text and numerically for numbers
func (v AttributeValue) Matches(value string) bool {
	switch v.kind {
	case AttributeNumber:
		n, err := decimal.NewFromString(strings.TrimSpace(value))
		return err == nil && n.Equal(v.number)
	case AttributeStrings:
		for _, s := range v.strings {
			if strings.EqualFold(s, value) {
				return true
			}
		}
		return false
	default:
		return strings.EqualFold(v.text, value)
	}
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AttributeNumber:
		return []byte(v.number.String()), nil
	case AttributeStrings:
		return json.Marshal(v.strings)
	default:
		return json.Marshal(v.text)
	}
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode attribute value: %w", err)
	}

	switch value := raw.(type) {
	case string:
		*v = StringValue(value)
	case json.Number:
		n, err := decimal.NewFromString(value.String())
		if err != nil {
			return fmt.Errorf("failed to parse numeric attribute %s: %w", value, err)
		}
		*v = NumberValue(n)
	case []interface{}:
		values := make([]string, 0, len(value))
		for _, item := range value {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("unsupported list attribute element %v", item)
			}
			values = append(values, s)
		}
		*v = StringsValue(values...)
	default:
		return fmt.Errorf("unsupported attribute value %s", string(data))
	}

	return nil
}
