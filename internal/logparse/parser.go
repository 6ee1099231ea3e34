package logparse

import (
	"strings"

	"github.com/google/uuid"

	"github.com/blemapper/blemapper-core/internal/attribute"
)

// Line markers the scanner keys on.
const (
	markerDiscovered      = "Discovered"
	markerServices        = "Services"
	markerCharacteristics = "Characteristics"
	markerNotifying       = "Setting Boolean true for Notifying Characteristic"
	markerWriting         = "Writing value"
	markerUpdatedValue    = "Updated Value of Characteristic"
)

// uuidChars are the characters that mark an item as a UUID rather than a
// bare name. Standard codes are upper-case hex, long UUIDs are hyphenated.
const uuidChars = "0123456789ABCDEF-"

// Hints carries caller-supplied context stamped onto every draft record.
type Hints struct {
	Vendor      string
	Model       string
	Description string
}

// Result holds the draft records extracted from one log text, in discovery
// order. Services come before characteristics so parent references resolve
// when the batch is persisted in order.
type Result struct {
	Services        []*attribute.Attribute
	Characteristics []*attribute.Attribute

	serviceIndex map[string]*attribute.Attribute
	charIndex    map[string]*attribute.Attribute
}

// Drafts returns all draft records in persistence order (services first).
func (r *Result) Drafts() []*attribute.Attribute {
	drafts := make([]*attribute.Attribute, 0, len(r.Services)+len(r.Characteristics))
	drafts = append(drafts, r.Services...)
	drafts = append(drafts, r.Characteristics...)
	return drafts
}

// Parser turns semi-structured log text into draft attribute records.
//
// The zero value is not usable; construct with New. The parser carries no
// state between Parse calls — each invocation is fully restartable.
type Parser struct {
	newUUID func() string
}

// New creates a Parser using random v4 UUIDs for placeholder identifiers.
func New() *Parser {
	return &Parser{newUUID: uuid.NewString}
}

// NewWithGenerator creates a Parser with a custom placeholder UUID source.
// Used by tests that need deterministic output.
func NewWithGenerator(gen func() string) *Parser {
	return &Parser{newUUID: gen}
}

// Parse scans text line by line and extracts draft services and
// characteristics. The only scan state is the most recently discovered
// service: characteristic lines attach to it regardless of the device's
// actual hierarchy, so ordering in the log matters.
//
// Property lines (notify, write, updated value) that reference a
// characteristic never introduced by a "Discovered ... Characteristics"
// line are silently ignored.
func (p *Parser) Parse(text string, hints Hints) *Result {
	result := &Result{
		Services:        []*attribute.Attribute{},
		Characteristics: []*attribute.Attribute{},
		serviceIndex:    make(map[string]*attribute.Attribute),
		charIndex:       make(map[string]*attribute.Attribute),
	}

	comment := provenanceComment(hints.Description)
	currentService := ""

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, markerDiscovered) && strings.Contains(line, markerServices):
			part, ok := between(line, markerDiscovered+" ", " "+markerServices)
			if !ok {
				continue
			}
			for _, item := range splitItems(part) {
				svc := p.draftService(item, hints, comment)
				result.addService(svc)
				currentService = svc.UUID
			}

		case strings.Contains(line, markerDiscovered) && strings.Contains(line, markerCharacteristics):
			part, ok := between(line, markerDiscovered+" ", " "+markerCharacteristics)
			if !ok {
				continue
			}
			for _, item := range splitItems(part) {
				char := p.draftCharacteristic(item, currentService, hints, comment)
				result.addCharacteristic(char)
			}

		case strings.Contains(line, markerNotifying):
			id, ok := after(line, "Characteristic ")
			if !ok {
				continue
			}
			if char, known := result.charIndex[strings.TrimSpace(id)]; known {
				char.CanNotify = true
			}

		case strings.Contains(line, markerWriting) && strings.Contains(line, "to"):
			rest, ok := after(line, "to ")
			if !ok {
				continue
			}
			id, _, _ := strings.Cut(rest, " Characteristic")
			if char, known := result.charIndex[strings.TrimSpace(id)]; known {
				char.CanWrite = true
			}

		case strings.Contains(line, markerUpdatedValue):
			rest, ok := after(line, "Characteristic ")
			if !ok {
				continue
			}
			id, value, found := strings.Cut(rest, " to ")
			if !found {
				continue
			}
			if char, known := result.charIndex[strings.TrimSpace(id)]; known {
				char.CanRead = true
				sample := strings.TrimSpace(value)
				char.SampleData = &sample
			}
		}
	}

	return result
}

// draftService builds a service draft from one list item.
func (p *Parser) draftService(item string, hints Hints, comment string) *attribute.Attribute {
	id, description := p.classify(item, "Service")
	c := comment
	return &attribute.Attribute{
		UUID:        id,
		Vendor:      hints.Vendor,
		Model:       hints.Model,
		Description: description,
		Type:        attribute.TypeService,
		Comment:     &c,
		Children:    []attribute.Attribute{},
	}
}

// draftCharacteristic builds a characteristic draft attached to the current service.
func (p *Parser) draftCharacteristic(item, currentService string, hints Hints, comment string) *attribute.Attribute {
	id, description := p.classify(item, "Characteristic")
	c := comment
	char := &attribute.Attribute{
		UUID:        id,
		Vendor:      hints.Vendor,
		Model:       hints.Model,
		Description: description,
		Type:        attribute.TypeCharacteristic,
		Comment:     &c,
		Children:    []attribute.Attribute{},
	}
	if currentService != "" {
		svc := currentService
		char.ServiceUUID = &svc
	}
	return char
}

// classify decides whether an item is a UUID or a bare name. UUID-looking
// items keep their identifier and get a "<kind> <uuid>" description; bare
// names get a generated placeholder UUID and become the description.
func (p *Parser) classify(item, kind string) (id, description string) {
	if strings.ContainsAny(item, uuidChars) {
		return item, kind + " " + item
	}
	return p.newUUID(), item
}

// addService records a service draft, replacing an earlier draft with the
// same UUID in place (last mention wins, discovery order preserved).
func (r *Result) addService(svc *attribute.Attribute) {
	if existing, ok := r.serviceIndex[svc.UUID]; ok {
		*existing = *svc
		return
	}
	r.serviceIndex[svc.UUID] = svc
	r.Services = append(r.Services, svc)
}

// addCharacteristic records a characteristic draft, same replacement rule.
func (r *Result) addCharacteristic(char *attribute.Attribute) {
	if existing, ok := r.charIndex[char.UUID]; ok {
		*existing = *char
		return
	}
	r.charIndex[char.UUID] = char
	r.Characteristics = append(r.Characteristics, char)
}

// splitItems breaks a discovered-items list into trimmed entries.
// Comma-separated lists may end with "X and Y"; without commas the whole
// part splits on " and ".
func splitItems(part string) []string {
	var raw []string
	if strings.Contains(part, ",") {
		raw = strings.Split(part, ",")
		last := raw[len(raw)-1]
		if strings.Contains(last, " and ") {
			raw = append(raw[:len(raw)-1], strings.Split(last, " and ")...)
		}
	} else {
		raw = strings.Split(part, " and ")
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// between extracts the substring after the first start marker and before the
// following end marker.
func between(line, start, end string) (string, bool) {
	rest, ok := after(line, start)
	if !ok {
		return "", false
	}
	part, _, found := strings.Cut(rest, end)
	if !found {
		return "", false
	}
	return strings.TrimSpace(part), true
}

// after extracts the substring following the first occurrence of marker.
func after(line, marker string) (string, bool) {
	_, rest, found := strings.Cut(line, marker)
	if !found {
		return "", false
	}
	return rest, true
}

// provenanceComment builds the comment stamped on every parsed draft.
func provenanceComment(description string) string {
	if description == "" {
		description = "No description provided"
	}
	return "Automatically parsed from log: " + description
}
