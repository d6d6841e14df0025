package synth

import (
	"fmt"
	"strings"

	"bindEnhance/internal/model"
	"bindEnhance/internal/typemap"
)

// reservedNames are the locals every generated decoder declares and the
// packages its body refers to.
var reservedNames = map[string]bool{
	"method":    true,
	"ok":        true,
	"arguments": true,
	"callData":  true,
	"err":       true,
	"errors":    true,
	"bytes":     true,
	"abi":       true,
	"common":    true,
	"big":       true,
}

type decoderParam struct {
	name   string
	goType string
}

// InputDecoders renders UnpackInput<Method> for every pack record.
func InputDecoders(c model.Container, packs []model.PackMethodRecord) string {
	methods := make([]string, 0, len(packs))
	for _, pack := range packs {
		methods = append(methods, InputDecoder(c, pack))
	}
	return strings.Join(methods, "\n\n")
}

// InputDecoder renders the calldata decoder for one pack record. Every error
// branch returns the same zero tuple.
func InputDecoder(c model.Container, pack model.PackMethodRecord) string {
	params := decoderParams(c.Receiver, pack.HostParams)
	name := "UnpackInput" + pack.PackName

	var b strings.Builder
	fmt.Fprintf(&b, "// %s unpacks the input data for the %s method.\n", name, pack.ABIMethodName)
	b.WriteString("//\n")
	fmt.Fprintf(&b, "// Solidity: function %s\n", pack.RawSignature)

	if len(params) == 0 {
		fmt.Fprintf(&b, "func (%s *%s) %s(callData []byte) error {\n", c.Receiver, c.Name, name)
		writeLookup(&b, c, pack, "")
		b.WriteString("\treturn nil\n")
		b.WriteString("}")
		return b.String()
	}

	results := make([]string, 0, len(params))
	zeros := make([]string, 0, len(params))
	names := make([]string, 0, len(params))
	for _, p := range params {
		results = append(results, p.name+" "+p.goType)
		zeros = append(zeros, typemap.ZeroValue(p.goType))
		names = append(names, p.name)
	}
	zero := strings.Join(zeros, ", ") + ", "

	fmt.Fprintf(&b, "func (%s *%s) %s(callData []byte) (%s, err error) {\n", c.Receiver, c.Name, name, strings.Join(results, ", "))
	writeLookup(&b, c, pack, zero)
	b.WriteString("\targuments, err := method.Inputs.Unpack(callData[4:])\n")
	b.WriteString("\tif err != nil {\n")
	fmt.Fprintf(&b, "\t\treturn %serr\n", zero)
	b.WriteString("\t}\n")
	for i, p := range params {
		fmt.Fprintf(&b, "\t%s\n", typemap.ConvertExpr(p.name, p.goType, i))
	}
	fmt.Fprintf(&b, "\treturn %s, nil\n", strings.Join(names, ", "))
	b.WriteString("}")
	return b.String()
}

func writeLookup(b *strings.Builder, c model.Container, pack model.PackMethodRecord, zero string) {
	fmt.Fprintf(b, "\tmethod, ok := %s.abi.Methods[%q]\n", c.Receiver, pack.ABIMethodName)
	b.WriteString("\tif !ok {\n")
	fmt.Fprintf(b, "\t\treturn %serrors.New(\"method '%s' not found\")\n", zero, pack.ABIMethodName)
	b.WriteString("\t}\n")
	b.WriteString("\tif len(callData) < 4 || !bytes.Equal(callData[:4], method.ID[:4]) {\n")
	fmt.Fprintf(b, "\t\treturn %serrors.New(\"method signature mismatch\")\n", zero)
	b.WriteString("\t}\n")
}

// decoderParams renames parameters that would shadow a reserved identifier or
// the receiver, appending "Arg" until the name is unused.
func decoderParams(receiver string, host []model.Parameter) []decoderParam {
	reserved := func(name string) bool {
		return reservedNames[name] || name == receiver
	}

	taken := make(map[string]bool, len(host))
	for _, p := range host {
		if !reserved(p.Name) {
			taken[p.Name] = true
		}
	}

	params := make([]decoderParam, 0, len(host))
	for _, p := range host {
		name := p.Name
		if reserved(name) {
			for name += "Arg"; taken[name] || reserved(name); name += "Arg" {
			}
			taken[name] = true
		}
		params = append(params, decoderParam{name: name, goType: typemap.DecoderType(p.Type)})
	}
	return params
}
