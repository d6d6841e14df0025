package extract

import (
	"regexp"
	"strings"

	"bindEnhance/internal/model"
)

var (
	eventDocPattern    = regexp.MustCompile(`^//\s*Solidity: event (.+)$`)
	eventHeaderPattern = regexp.MustCompile(`^func \((\w+) \*(\w+)\) (Unpack\w+Event)\(log \*types\.Log\) \(\*(\w+), error\)\s*\{$`)
	eventBindPattern   = regexp.MustCompile(`^event := "([^"]+)"`)
)

// Events returns the UnpackXxxEvent records declared in src, in source order.
// The first record fixes the container; records bound to any other container
// are dropped. The returned container is zero when nothing matched.
func Events(src string) ([]model.UnpackEventRecord, model.Container) {
	return eventsFrom(Scan(src))
}

func eventsFrom(decls []Decl) ([]model.UnpackEventRecord, model.Container) {
	records := make([]model.UnpackEventRecord, 0)
	var container model.Container

	for _, decl := range decls {
		record, ok := matchEvent(decl)
		if !ok {
			continue
		}
		if container.Name == "" {
			container = model.Container{Name: record.Container, Receiver: record.Receiver}
		}
		if record.Container != container.Name || record.Receiver != container.Receiver {
			continue
		}
		records = append(records, record)
	}

	return records, container
}

func matchEvent(decl Decl) (model.UnpackEventRecord, bool) {
	if len(decl.Doc) == 0 {
		return model.UnpackEventRecord{}, false
	}
	doc := eventDocPattern.FindStringSubmatch(decl.Doc[len(decl.Doc)-1])
	if doc == nil {
		return model.UnpackEventRecord{}, false
	}
	header := eventHeaderPattern.FindStringSubmatch(decl.Header)
	if header == nil {
		return model.UnpackEventRecord{}, false
	}
	bind := eventBindPattern.FindStringSubmatch(decl.FirstStatement())
	if bind == nil {
		return model.UnpackEventRecord{}, false
	}

	return model.UnpackEventRecord{
		MethodName:   header[3],
		ReturnType:   header[4],
		EventName:    bind[1],
		RawSignature: strings.TrimSpace(doc[1]),
		Receiver:     header[1],
		Container:    header[2],
	}, true
}
