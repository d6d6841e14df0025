package model

// Family names a kind of generated block.
type Family string

const (
	FamilyDispatcher      Family = "dispatcher"
	FamilyEventTopic      Family = "eventTopic"
	FamilyMethodID        Family = "methodID"
	FamilyInputDecoder    Family = "inputDecoder"
	FamilyRecordTopic     Family = "recordTopic"
	FamilyRecordSignature Family = "recordSignature"
)

// ApplyOrder is the order in which generated blocks are written into a file.
var ApplyOrder = []Family{
	FamilyDispatcher,
	FamilyEventTopic,
	FamilyMethodID,
	FamilyInputDecoder,
	FamilyRecordTopic,
	FamilyRecordSignature,
}

// GeneratedBlock is the synthesized text for one family.
type GeneratedBlock struct {
	Family Family
	Text   string
}

// RegionSpan is a half-open byte range [Start, End) within a source text.
type RegionSpan struct {
	Start int
	End   int
}
