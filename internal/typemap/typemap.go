// Package typemap maps Go binding types and Solidity types onto the closed
// TypeTag set and produces the literals the generated decoders need.
package typemap

import (
	"fmt"
	"strconv"
	"strings"

	"bindEnhance/internal/model"
)

// Info describes how a Go type is handled by generated decoders.
type Info struct {
	Tag model.TypeTag
	// Pointer reports whether the decoder returns the value behind a pointer.
	Pointer bool
	Zero    string
}

var goTypes = map[string]Info{
	"common.Address": {Tag: model.TagAddress, Zero: "common.Address{}"},
	"common.Hash":    {Tag: model.TagBytes, Zero: "common.Hash{}"},
	"*big.Int":       {Tag: model.TagBigInt, Pointer: true, Zero: "nil"},
	"bool":           {Tag: model.TagBool, Zero: "false"},
	"string":         {Tag: model.TagString, Zero: `""`},
	"[]byte":         {Tag: model.TagBytes, Zero: "nil"},
	"uint8":          {Tag: model.TagFixedInt, Zero: "0"},
	"uint16":         {Tag: model.TagFixedInt, Zero: "0"},
	"uint32":         {Tag: model.TagFixedInt, Zero: "0"},
	"uint64":         {Tag: model.TagFixedInt, Zero: "0"},
	"uint":           {Tag: model.TagFixedInt, Zero: "0"},
	"int8":           {Tag: model.TagFixedInt, Zero: "0"},
	"int16":          {Tag: model.TagFixedInt, Zero: "0"},
	"int32":          {Tag: model.TagFixedInt, Zero: "0"},
	"int64":          {Tag: model.TagFixedInt, Zero: "0"},
	"int":            {Tag: model.TagFixedInt, Zero: "0"},
}

// Classify returns the handling of a Go type spelling. Unknown named types are
// treated as structs returned by pointer.
func Classify(goType string) Info {
	goType = strings.TrimSpace(goType)
	if info, ok := goTypes[goType]; ok {
		return info
	}

	switch {
	case strings.HasPrefix(goType, "*"):
		return Info{Tag: model.TagStruct, Pointer: true, Zero: "nil"}
	case strings.HasPrefix(goType, "[]"):
		return Info{Tag: model.TagUnknown, Zero: "nil"}
	case isFixedArray(goType):
		elem := goType[strings.Index(goType, "]")+1:]
		tag := model.TagUnknown
		if elem == "byte" || elem == "uint8" {
			tag = model.TagBytes
		}
		return Info{Tag: tag, Zero: goType + "{}"}
	default:
		return Info{Tag: model.TagStruct, Pointer: true, Zero: "nil"}
	}
}

// DecoderType returns the type used in a generated decoder signature.
func DecoderType(goType string) string {
	goType = strings.TrimSpace(goType)
	if Classify(goType).Pointer && !strings.HasPrefix(goType, "*") {
		return "*" + goType
	}
	return goType
}

// ZeroValue returns the zero literal for a Go type.
func ZeroValue(goType string) string {
	return Classify(goType).Zero
}

// ConvertExpr returns the statement that assigns positional argument index to
// name. goType must already be the decoder type.
func ConvertExpr(name, goType string, index int) string {
	if strings.HasPrefix(goType, "*") {
		inner := goType[1:]
		return fmt.Sprintf("%s = abi.ConvertType(arguments[%d], new(%s)).(*%s)", name, index, inner, inner)
	}
	return fmt.Sprintf("%s = *abi.ConvertType(arguments[%d], new(%s)).(*%s)", name, index, goType, goType)
}

// ClassifyExternal tags a Solidity type name.
func ClassifyExternal(solType string) model.TypeTag {
	solType = strings.TrimSpace(solType)
	switch {
	case solType == "":
		return model.TagUnknown
	case strings.HasSuffix(solType, "]"):
		return model.TagUnknown
	case strings.HasPrefix(solType, "(") || solType == "tuple":
		return model.TagStruct
	case solType == "address" || solType == "address payable":
		return model.TagAddress
	case solType == "bool":
		return model.TagBool
	case solType == "string":
		return model.TagString
	case strings.HasPrefix(solType, "bytes"):
		return model.TagBytes
	case strings.HasPrefix(solType, "uint"):
		return integerTag(strings.TrimPrefix(solType, "uint"))
	case strings.HasPrefix(solType, "int"):
		return integerTag(strings.TrimPrefix(solType, "int"))
	default:
		return model.TagUnknown
	}
}

func integerTag(bits string) model.TypeTag {
	if bits == "" {
		return model.TagBigInt
	}
	size, err := strconv.Atoi(bits)
	if err != nil {
		return model.TagUnknown
	}
	if size <= 64 {
		return model.TagFixedInt
	}
	return model.TagBigInt
}

func isFixedArray(goType string) bool {
	if !strings.HasPrefix(goType, "[") {
		return false
	}
	end := strings.Index(goType, "]")
	if end <= 1 {
		return false
	}
	_, err := strconv.Atoi(goType[1:end])
	return err == nil
}
