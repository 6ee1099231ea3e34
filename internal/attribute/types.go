package attribute

import (
	"encoding/json"
	"time"
)

// Type classifies a BLE attribute.
type Type string

// The three BLE attribute kinds. Services are top-level containers;
// characteristics and descriptors belong to exactly one parent service.
const (
	TypeService        Type = "service"
	TypeCharacteristic Type = "characteristic"
	TypeDescriptor     Type = "descriptor"
)

// Valid reports whether t is a recognised attribute type.
func (t Type) Valid() bool {
	switch t {
	case TypeService, TypeCharacteristic, TypeDescriptor:
		return true
	default:
		return false
	}
}

// Attribute is a single BLE attribute record.
// This matches the schema in migrations/20260215_120000_ble_attributes.up.sql.
type Attribute struct {
	// UUID is the primary identifying key: a standard 16-bit hex code, a
	// 128-bit hyphenated UUID, or a generated placeholder when the source
	// log carried no explicit identifier.
	UUID        string `json:"uuid"`
	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	Description string `json:"description"`
	Type        Type   `json:"attribute_type"`

	// ServiceUUID references the parent service. Nil for services.
	ServiceUUID *string `json:"service_uuid"`

	// SampleData is an optional snapshot of an observed value.
	SampleData *string `json:"sample_data"`

	// Supported GATT operations.
	CanRead     bool `json:"can_read"`
	CanWrite    bool `json:"can_write"`
	CanIndicate bool `json:"can_indicate"`
	CanNotify   bool `json:"can_notify"`

	// Comment is an optional annotation, auto-populated with provenance
	// when the record was created via log parsing.
	Comment *string `json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Children holds the direct children (one level only), attached on
	// reads for convenience. Derived from service_uuid, never persisted.
	Children []Attribute `json:"children"`
}

// Validate performs the static checks that need no catalog state.
// Parent resolution happens inside the repository transaction.
func (a *Attribute) Validate() error {
	if a.UUID == "" {
		return ErrInvalidUUID
	}
	if !a.Type.Valid() {
		return ErrInvalidType
	}
	if a.Type == TypeService {
		if a.ServiceUUID != nil && *a.ServiceUUID != "" {
			return ErrInvalidParent
		}
		return nil
	}
	if a.ServiceUUID == nil || *a.ServiceUUID == "" {
		return ErrMissingParent
	}
	return nil
}

// Patch is an allow-listed partial update. Nil fields are left unchanged.
// The UUID itself is not patchable. Nullable columns use NullableString so a
// JSON null clears the value while an absent key leaves it alone.
type Patch struct {
	Vendor      *string        `json:"vendor"`
	Model       *string        `json:"model"`
	Description *string        `json:"description"`
	Type        *Type          `json:"attribute_type"`
	ServiceUUID NullableString `json:"service_uuid"`
	SampleData  NullableString `json:"sample_data"`
	CanRead     *bool          `json:"can_read"`
	CanWrite    *bool          `json:"can_write"`
	CanIndicate *bool          `json:"can_indicate"`
	CanNotify   *bool          `json:"can_notify"`
	Comment     NullableString `json:"comment"`
}

// Apply overwrites the set fields of attr with the patch values.
func (p *Patch) Apply(attr *Attribute) {
	if p.Vendor != nil {
		attr.Vendor = *p.Vendor
	}
	if p.Model != nil {
		attr.Model = *p.Model
	}
	if p.Description != nil {
		attr.Description = *p.Description
	}
	if p.Type != nil {
		attr.Type = *p.Type
	}
	if p.ServiceUUID.Set {
		attr.ServiceUUID = p.ServiceUUID.Value
	}
	if p.SampleData.Set {
		attr.SampleData = p.SampleData.Value
	}
	if p.CanRead != nil {
		attr.CanRead = *p.CanRead
	}
	if p.CanWrite != nil {
		attr.CanWrite = *p.CanWrite
	}
	if p.CanIndicate != nil {
		attr.CanIndicate = *p.CanIndicate
	}
	if p.Comment.Set {
		attr.Comment = p.Comment.Value
	}
	if p.CanNotify != nil {
		attr.CanNotify = *p.CanNotify
	}
}

// NullableString distinguishes an absent JSON key, an explicit null, and a
// set string value in patch payloads.
type NullableString struct {
	// Set is true when the key appeared in the JSON document at all.
	Set bool
	// Value is nil for an explicit null.
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the key
// is present, so Set is always true afterwards.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// MarshalJSON implements json.Marshaler for symmetry in tests and logs.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
