package model

// TypeTag classifies a parameter type into a closed set of value kinds.
type TypeTag int

const (
	TagUnknown TypeTag = iota
	TagAddress
	TagBigInt
	TagBool
	TagFixedInt
	TagString
	TagBytes
	TagStruct
)

var typeTagNames = map[TypeTag]string{
	TagUnknown:  "unknown",
	TagAddress:  "address",
	TagBigInt:   "bigint",
	TagBool:     "bool",
	TagFixedInt: "fixedint",
	TagString:   "string",
	TagBytes:    "bytes",
	TagStruct:   "struct",
}

func (t TypeTag) String() string {
	if name, ok := typeTagNames[t]; ok {
		return name
	}
	return "unknown"
}

// Parameter is one entry of an ordered parameter list.
type Parameter struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Tag  TypeTag `json:"tag"`
}
