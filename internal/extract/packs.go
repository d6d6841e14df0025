package extract

import (
	"regexp"
	"strings"

	"bindEnhance/internal/model"
)

var (
	packDocPattern     = regexp.MustCompile(`^// Pack(\w+) is the Go binding`)
	methodIDPattern    = regexp.MustCompile(`method with ID 0x([0-9a-fA-F]+)`)
	functionDocPattern = regexp.MustCompile(`^//\s*Solidity: function (.+)$`)
	packHeaderPattern  = regexp.MustCompile(`^func \((\w+) \*(\w+)\) Pack(\w+)\(([^)]*)\) \[\]byte\s*\{$`)
	packBindPattern    = regexp.MustCompile(`^enc, err := (\w+)\.abi\.Pack\("([^"]+)"`)
)

const methodIDHexLen = 8

// Packs returns the PackXxx records of container c declared in src, in source
// order. Declarations whose method ID is not four bytes of hex are skipped.
func Packs(src string, c model.Container) []model.PackMethodRecord {
	return packsFrom(Scan(src), c)
}

func packsFrom(decls []Decl, c model.Container) []model.PackMethodRecord {
	records := make([]model.PackMethodRecord, 0)
	for _, decl := range decls {
		if record, ok := matchPack(decl, c); ok {
			records = append(records, record)
		}
	}
	return records
}

func matchPack(decl Decl, c model.Container) (model.PackMethodRecord, bool) {
	if len(decl.Doc) == 0 {
		return model.PackMethodRecord{}, false
	}
	doc := packDocPattern.FindStringSubmatch(decl.Doc[0])
	if doc == nil {
		return model.PackMethodRecord{}, false
	}
	function := functionDocPattern.FindStringSubmatch(decl.Doc[len(decl.Doc)-1])
	if function == nil {
		return model.PackMethodRecord{}, false
	}
	id := methodIDPattern.FindStringSubmatch(strings.Join(decl.Doc, "\n"))
	if id == nil || len(id[1]) != methodIDHexLen {
		return model.PackMethodRecord{}, false
	}

	header := packHeaderPattern.FindStringSubmatch(decl.Header)
	if header == nil {
		return model.PackMethodRecord{}, false
	}
	if header[1] != c.Receiver || header[2] != c.Name || header[3] != doc[1] {
		return model.PackMethodRecord{}, false
	}
	bind := packBindPattern.FindStringSubmatch(decl.FirstStatement())
	if bind == nil || bind[1] != c.Receiver {
		return model.PackMethodRecord{}, false
	}

	signature := strings.TrimSpace(function[1])
	return model.PackMethodRecord{
		PackName:       doc[1],
		MethodIDHex:    strings.ToLower(id[1]),
		RawSignature:   signature,
		ABIMethodName:  bind[2],
		HostParams:     ParseHostParams(header[4]),
		ExternalParams: ParseExternalParams(ExternalParamList(signature)),
	}, true
}
