package attribute

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAttribute_Validate(t *testing.T) {
	svc := "1800"

	tests := []struct {
		name    string
		attr    Attribute
		wantErr error
	}{
		{
			name: "valid service",
			attr: Attribute{UUID: "1800", Type: TypeService},
		},
		{
			name: "valid characteristic",
			attr: Attribute{UUID: "2A00", Type: TypeCharacteristic, ServiceUUID: &svc},
		},
		{
			name: "valid descriptor",
			attr: Attribute{UUID: "2902", Type: TypeDescriptor, ServiceUUID: &svc},
		},
		{
			name:    "missing uuid",
			attr:    Attribute{Type: TypeService},
			wantErr: ErrInvalidUUID,
		},
		{
			name:    "unknown type",
			attr:    Attribute{UUID: "1800", Type: Type("widget")},
			wantErr: ErrInvalidType,
		},
		{
			name:    "characteristic without parent",
			attr:    Attribute{UUID: "2A00", Type: TypeCharacteristic},
			wantErr: ErrMissingParent,
		},
		{
			name:    "descriptor with empty parent",
			attr:    Attribute{UUID: "2902", Type: TypeDescriptor, ServiceUUID: ptrStr("")},
			wantErr: ErrMissingParent,
		},
		{
			name:    "service with parent",
			attr:    Attribute{UUID: "180F", Type: TypeService, ServiceUUID: &svc},
			wantErr: ErrInvalidParent,
		},
		{
			name: "service with empty parent string",
			attr: Attribute{UUID: "180F", Type: TypeService, ServiceUUID: ptrStr("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.attr.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestType_Valid(t *testing.T) {
	for _, valid := range []Type{TypeService, TypeCharacteristic, TypeDescriptor} {
		if !valid.Valid() {
			t.Errorf("Valid(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []Type{"", "Service", "gadget"} {
		if invalid.Valid() {
			t.Errorf("Valid(%q) = true, want false", invalid)
		}
	}
}

func TestPatch_Apply(t *testing.T) {
	svc := "1800"
	base := func() Attribute {
		return Attribute{
			UUID:        "2A00",
			Vendor:      "Acme",
			Model:       "Tracker 9",
			Description: "Device Name",
			Type:        TypeCharacteristic,
			ServiceUUID: &svc,
			SampleData:  ptrStr("old"),
			CanRead:     true,
			Comment:     ptrStr("note"),
		}
	}

	t.Run("empty patch changes nothing", func(t *testing.T) {
		attr := base()
		(&Patch{}).Apply(&attr)

		if attr.Vendor != "Acme" || attr.SampleData == nil || *attr.SampleData != "old" {
			t.Errorf("empty patch modified attribute: %+v", attr)
		}
	})

	t.Run("set fields overwrite", func(t *testing.T) {
		attr := base()
		vendor := "Initech"
		canRead := false
		(&Patch{Vendor: &vendor, CanRead: &canRead}).Apply(&attr)

		if attr.Vendor != "Initech" {
			t.Errorf("Vendor = %q, want Initech", attr.Vendor)
		}
		if attr.CanRead {
			t.Error("CanRead = true, want false")
		}
		if attr.Model != "Tracker 9" {
			t.Errorf("Model = %q, want unchanged", attr.Model)
		}
	})

	t.Run("explicit null clears nullable fields", func(t *testing.T) {
		attr := base()
		(&Patch{
			SampleData: NullableString{Set: true, Value: nil},
			Comment:    NullableString{Set: true, Value: nil},
		}).Apply(&attr)

		if attr.SampleData != nil {
			t.Errorf("SampleData = %q, want nil", *attr.SampleData)
		}
		if attr.Comment != nil {
			t.Errorf("Comment = %q, want nil", *attr.Comment)
		}
	})
}

func TestPatch_UnmarshalJSON(t *testing.T) {
	t.Run("absent keys stay unset", func(t *testing.T) {
		var patch Patch
		if err := json.Unmarshal([]byte(`{"vendor":"Acme"}`), &patch); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		if patch.Vendor == nil || *patch.Vendor != "Acme" {
			t.Errorf("Vendor = %v, want Acme", patch.Vendor)
		}
		if patch.SampleData.Set {
			t.Error("SampleData.Set = true for absent key")
		}
		if patch.Model != nil {
			t.Errorf("Model = %v, want nil", patch.Model)
		}
	})

	t.Run("explicit null is set with nil value", func(t *testing.T) {
		var patch Patch
		if err := json.Unmarshal([]byte(`{"sample_data":null}`), &patch); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		if !patch.SampleData.Set {
			t.Error("SampleData.Set = false, want true")
		}
		if patch.SampleData.Value != nil {
			t.Errorf("SampleData.Value = %q, want nil", *patch.SampleData.Value)
		}
	})

	t.Run("string value is set", func(t *testing.T) {
		var patch Patch
		if err := json.Unmarshal([]byte(`{"service_uuid":"1800"}`), &patch); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		if !patch.ServiceUUID.Set || patch.ServiceUUID.Value == nil || *patch.ServiceUUID.Value != "1800" {
			t.Errorf("ServiceUUID = %+v, want set 1800", patch.ServiceUUID)
		}
	})

	t.Run("non-string value fails", func(t *testing.T) {
		var patch Patch
		if err := json.Unmarshal([]byte(`{"comment":42}`), &patch); err == nil {
			t.Error("Unmarshal() error = nil, want type error")
		}
	})
}

func TestChildrenError(t *testing.T) {
	err := &ChildrenError{Count: 3}

	if !errors.Is(err, ErrHasChildren) {
		t.Error("ChildrenError does not unwrap to ErrHasChildren")
	}

	var childErr *ChildrenError
	if !errors.As(err, &childErr) || childErr.Count != 3 {
		t.Errorf("errors.As failed or Count = %d, want 3", childErr.Count)
	}
}

func ptrStr(s string) *string {
	return &s
}
