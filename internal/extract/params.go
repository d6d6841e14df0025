package extract

import (
	"strings"

	"bindEnhance/internal/model"
	"bindEnhance/internal/typemap"
)

// ParseHostParams parses a Go parameter list such as
// "to common.Address, value *big.Int". Entries without a type are dropped.
func ParseHostParams(list string) []model.Parameter {
	params := make([]model.Parameter, 0)
	for _, part := range splitTopLevel(list) {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		goType := strings.Join(fields[1:], " ")
		params = append(params, model.Parameter{
			Name: fields[0],
			Type: goType,
			Tag:  typemap.Classify(goType).Tag,
		})
	}
	return params
}

// ParseExternalParams parses a Solidity parameter list such as
// "address indexed from, uint256 value". Entries without a name are kept with
// an empty name.
func ParseExternalParams(list string) []model.Parameter {
	params := make([]model.Parameter, 0)
	for _, part := range splitTopLevel(list) {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		param := model.Parameter{Type: fields[0], Tag: typemap.ClassifyExternal(fields[0])}
		if len(fields) > 1 {
			param.Name = fields[len(fields)-1]
		}
		params = append(params, param)
	}
	return params
}

// ExternalParamList returns the text between the first "(" of a Solidity
// signature and its matching ")". A signature without a list yields "".
func ExternalParamList(signature string) string {
	open := strings.IndexByte(signature, '(')
	if open < 0 {
		return ""
	}
	depth := 0
	for i := open; i < len(signature); i++ {
		switch signature[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return signature[open+1 : i]
			}
		}
	}
	return signature[open+1:]
}

// splitTopLevel splits on commas that are not nested in brackets.
func splitTopLevel(list string) []string {
	parts := make([]string, 0)
	if strings.TrimSpace(list) == "" {
		return parts
	}
	depth := 0
	start := 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(list[start:]))
	return parts
}
