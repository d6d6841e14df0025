// Package patch writes generated blocks into binding source text. Each family
// owns one contiguous region that is replaced when present and appended
// otherwise, so applying the same block twice is a no-op.
package patch

import (
	"regexp"
	"strings"

	"bindEnhance/internal/extract"
	"bindEnhance/internal/model"
)

type shape struct {
	doc    *regexp.Regexp
	header *regexp.Regexp
}

func shapeFor(family model.Family, container string) (shape, bool) {
	c := regexp.QuoteMeta(container)
	switch family {
	case model.FamilyDispatcher:
		return shape{
			doc:    regexp.MustCompile(`^// UnpackEvent unpacks event log based on topic0\.$`),
			header: regexp.MustCompile(`^func \(\w+ \*` + c + `\) UnpackEvent\(log \*types\.Log\)`),
		}, true
	case model.FamilyEventTopic:
		return shape{
			doc:    regexp.MustCompile(`^// ` + c + `\w+Topic0 returns`),
			header: regexp.MustCompile(`^func ` + c + `\w+Topic0\(\) common\.Hash`),
		}, true
	case model.FamilyMethodID:
		return shape{
			doc:    regexp.MustCompile(`^// \w+MethodID returns`),
			header: regexp.MustCompile(`^func \(\w+ \*` + c + `\) \w+MethodID\(\) \[4\]byte`),
		}, true
	case model.FamilyInputDecoder:
		return shape{
			doc:    regexp.MustCompile(`^// UnpackInput\w+ unpacks the input data`),
			header: regexp.MustCompile(`^func \(\w+ \*` + c + `\) UnpackInput\w+\(callData \[\]byte\)`),
		}, true
	case model.FamilyRecordTopic:
		return shape{
			doc:    regexp.MustCompile(`^// Topic0 returns the hash of the event signature\.$`),
			header: regexp.MustCompile(`^func \(` + c + `\w+\) Topic0\(\) common\.Hash`),
		}, true
	case model.FamilyRecordSignature:
		return shape{
			doc:    regexp.MustCompile(`^// Signature returns the event signature string\.$`),
			header: regexp.MustCompile(`^func \(` + c + `\w+\) Signature\(\) string`),
		}, true
	default:
		return shape{}, false
	}
}

func (s shape) matches(d extract.Decl) bool {
	return len(d.Doc) > 0 && s.doc.MatchString(d.Doc[0]) && s.header.MatchString(d.Header)
}

// Locate returns the span from the first to the last declaration of family in
// src. The span starts at the first doc line and ends just past the closing
// brace.
func Locate(src string, family model.Family, container string) (model.RegionSpan, bool) {
	s, ok := shapeFor(family, container)
	if !ok {
		return model.RegionSpan{}, false
	}

	span := model.RegionSpan{Start: -1}
	for _, d := range extract.Scan(src) {
		if !s.matches(d) {
			continue
		}
		if span.Start < 0 {
			span.Start = d.Start
		}
		span.End = d.End
	}
	if span.Start < 0 {
		return model.RegionSpan{}, false
	}
	return span, true
}

// Apply writes block into src. An existing region is replaced in place;
// otherwise the block is appended after exactly one blank line. An empty
// block leaves src unchanged.
func Apply(src string, family model.Family, container, block string) string {
	if block == "" {
		return src
	}
	if span, ok := Locate(src, family, container); ok {
		return src[:span.Start] + block + src[span.End:]
	}
	return src + separator(src) + block + "\n"
}

// ApplyAll applies blocks in order.
func ApplyAll(src, container string, blocks []model.GeneratedBlock) string {
	for _, block := range blocks {
		src = Apply(src, block.Family, container, block.Text)
	}
	return src
}

func separator(src string) string {
	switch {
	case src == "", strings.HasSuffix(src, "\n\n"):
		return ""
	case strings.HasSuffix(src, "\n"):
		return "\n"
	default:
		return "\n\n"
	}
}
