// Package synth renders the derived methods for a binding file.
package synth

import (
	"fmt"
	"strings"

	"bindEnhance/internal/model"
	"bindEnhance/internal/signature"
)

// Options toggles optional families.
type Options struct {
	Signatures bool
}

// Synthesize returns one block per family in model.ApplyOrder. topics maps an
// event record's MethodName to its hash; records without an entry get no
// topic methods. Families without methods have empty text.
func Synthesize(c model.Container, events []model.UnpackEventRecord, packs []model.PackMethodRecord, topics map[string]string, opts Options) []model.GeneratedBlock {
	texts := map[model.Family]string{
		model.FamilyDispatcher:   Dispatcher(c, events),
		model.FamilyEventTopic:   EventTopics(c, events, topics),
		model.FamilyMethodID:     MethodIDs(c, packs),
		model.FamilyInputDecoder: InputDecoders(c, packs),
		model.FamilyRecordTopic:  RecordTopics(events, topics),
	}
	if opts.Signatures {
		texts[model.FamilyRecordSignature] = RecordSignatures(events)
	}

	blocks := make([]model.GeneratedBlock, 0, len(model.ApplyOrder))
	for _, family := range model.ApplyOrder {
		blocks = append(blocks, model.GeneratedBlock{Family: family, Text: texts[family]})
	}
	return blocks
}

// Dispatcher renders UnpackEvent, which tries each event in extraction order.
func Dispatcher(c model.Container, events []model.UnpackEventRecord) string {
	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("// UnpackEvent unpacks event log based on topic0.\n")
	fmt.Fprintf(&b, "func (%s *%s) UnpackEvent(log *types.Log) (interface {\n", c.Receiver, c.Name)
	b.WriteString("\tContractEventName() string\n")
	b.WriteString("\tTopic0() common.Hash\n")
	b.WriteString("}, error) {\n")
	b.WriteString("\tvar mismatch = errors.New(\"event signature mismatch\")\n")
	b.WriteString("\tif len(log.Topics) == 0 {\n")
	b.WriteString("\t\treturn nil, mismatch\n")
	b.WriteString("\t}\n")
	b.WriteString("\ttopic0 := log.Topics[0]\n")
	for _, event := range events {
		fmt.Fprintf(&b, "\tif topic0 == %s.abi.Events[%q].ID {\n", c.Receiver, event.EventName)
		fmt.Fprintf(&b, "\t\treturn %s.%s(log)\n", c.Receiver, event.MethodName)
		b.WriteString("\t}\n")
	}
	b.WriteString("\treturn nil, mismatch\n")
	b.WriteString("}")
	return b.String()
}

// EventTopics renders the package-level <Container><Event>Topic0 accessors.
func EventTopics(c model.Container, events []model.UnpackEventRecord, topics map[string]string) string {
	methods := make([]string, 0, len(events))
	for _, event := range events {
		hash, ok := topics[event.MethodName]
		if !ok {
			continue
		}
		name := c.Name + event.Suffix() + "Topic0"
		methods = append(methods, fmt.Sprintf(
			"// %s returns the hash of the event signature.\n//\n// Solidity: event %s\nfunc %s() common.Hash {\n\treturn common.HexToHash(%q)\n}",
			name, signature.Canonicalize(event.RawSignature), name, hash,
		))
	}
	return strings.Join(methods, "\n\n")
}

// RecordTopics renders Topic0 on each decoded event type.
func RecordTopics(events []model.UnpackEventRecord, topics map[string]string) string {
	methods := make([]string, 0, len(events))
	for _, event := range events {
		hash, ok := topics[event.MethodName]
		if !ok {
			continue
		}
		methods = append(methods, fmt.Sprintf(
			"// Topic0 returns the hash of the event signature.\n//\n// Solidity: event %s\nfunc (%s) Topic0() common.Hash {\n\treturn common.HexToHash(%q)\n}",
			signature.Canonicalize(event.RawSignature), event.ReturnType, hash,
		))
	}
	return strings.Join(methods, "\n\n")
}

// RecordSignatures renders Signature on each decoded event type.
func RecordSignatures(events []model.UnpackEventRecord) string {
	methods := make([]string, 0, len(events))
	for _, event := range events {
		canonical := signature.Canonicalize(event.RawSignature)
		methods = append(methods, fmt.Sprintf(
			"// Signature returns the event signature string.\n//\n// Solidity: event %s\nfunc (%s) Signature() string {\n\treturn %q\n}",
			canonical, event.ReturnType, signature.TypeOnly(canonical),
		))
	}
	return strings.Join(methods, "\n\n")
}

// MethodIDs renders the <Method>MethodID accessors.
func MethodIDs(c model.Container, packs []model.PackMethodRecord) string {
	methods := make([]string, 0, len(packs))
	for _, pack := range packs {
		id := pack.MethodIDHex
		methods = append(methods, fmt.Sprintf(
			"// %sMethodID returns the method ID for %s (0x%s).\n//\n// Solidity: function %s\nfunc (%s *%s) %sMethodID() [4]byte {\n\treturn [4]byte{0x%s, 0x%s, 0x%s, 0x%s}\n}",
			pack.PackName, pack.ABIMethodName, id, pack.RawSignature,
			c.Receiver, c.Name, pack.PackName,
			id[0:2], id[2:4], id[4:6], id[6:8],
		))
	}
	return strings.Join(methods, "\n\n")
}
