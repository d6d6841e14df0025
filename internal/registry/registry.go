// Package registry exports the event topics and function selectors found in
// binding files so that other tools can decode logs and calldata by hash.
package registry

import (
	"context"
	"strings"

	"bindEnhance/internal/model"
	"bindEnhance/internal/signature"
)

// Sink receives registry entries after a file has been augmented.
type Sink interface {
	PutEntries(ctx context.Context, entries []model.SignatureEntry) error
}

// Source resolves a topic or selector back to its entries.
type Source interface {
	Lookup(ctx context.Context, selector string) ([]model.SignatureEntry, error)
}

// Entries builds one entry per hashed event and one per pack method. Events
// without a topic are left out.
func Entries(sourceFile string, c model.Container, events []model.UnpackEventRecord, topics map[string]string, packs []model.PackMethodRecord) []model.SignatureEntry {
	entries := make([]model.SignatureEntry, 0, len(events)+len(packs))
	for _, event := range events {
		topic, ok := topics[event.MethodName]
		if !ok {
			continue
		}
		entries = append(entries, model.SignatureEntry{
			Contract:   c.Name,
			Kind:       model.EntryKindEvent,
			Name:       event.EventName,
			Signature:  signature.TypeOnly(event.RawSignature),
			Selector:   NormalizeSelector(topic),
			SourceFile: sourceFile,
		})
	}
	for _, pack := range packs {
		entries = append(entries, model.SignatureEntry{
			Contract:   c.Name,
			Kind:       model.EntryKindFunction,
			Name:       pack.ABIMethodName,
			Signature:  signature.TypeOnly(pack.RawSignature),
			Selector:   NormalizeSelector(pack.MethodIDHex),
			SourceFile: sourceFile,
		})
	}
	return entries
}

// NormalizeSelector lowercases a hex selector and ensures the 0x prefix.
func NormalizeSelector(selector string) string {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if !strings.HasPrefix(selector, "0x") {
		selector = "0x" + selector
	}
	return selector
}
