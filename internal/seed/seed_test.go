package seed

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/blemapper/blemapper-core/internal/attribute"
)

// setupTestRepo creates an in-memory SQLite repository with the
// ble_attributes table.
func setupTestRepo(t *testing.T) *attribute.SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE ble_attributes (
			uuid TEXT PRIMARY KEY,
			vendor TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			attribute_type TEXT NOT NULL CHECK (attribute_type IN ('service', 'characteristic', 'descriptor')),
			service_uuid TEXT REFERENCES ble_attributes(uuid),
			sample_data TEXT,
			can_read INTEGER NOT NULL DEFAULT 0,
			can_write INTEGER NOT NULL DEFAULT 0,
			can_indicate INTEGER NOT NULL DEFAULT 0,
			can_notify INTEGER NOT NULL DEFAULT 0,
			comment TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return attribute.NewSQLiteRepository(db)
}

func TestCatalog_Shape(t *testing.T) {
	catalog := Catalog()

	if len(catalog) == 0 {
		t.Fatal("Catalog() is empty")
	}

	t.Run("services precede characteristics", func(t *testing.T) {
		seenCharacteristic := false
		for _, attr := range catalog {
			if attr.Type == attribute.TypeCharacteristic {
				seenCharacteristic = true
			}
			if attr.Type == attribute.TypeService && seenCharacteristic {
				t.Fatalf("service %s listed after a characteristic", attr.UUID)
			}
		}
	})

	t.Run("uuids are unique", func(t *testing.T) {
		seen := make(map[string]bool, len(catalog))
		for _, attr := range catalog {
			if seen[attr.UUID] {
				t.Errorf("duplicate UUID %s", attr.UUID)
			}
			seen[attr.UUID] = true
		}
	})

	t.Run("characteristic parents exist in catalog", func(t *testing.T) {
		services := make(map[string]bool)
		for _, attr := range catalog {
			if attr.Type == attribute.TypeService {
				services[attr.UUID] = true
			}
		}
		for _, attr := range catalog {
			if attr.Type != attribute.TypeCharacteristic {
				continue
			}
			if attr.ServiceUUID == nil || !services[*attr.ServiceUUID] {
				t.Errorf("characteristic %s has unresolved parent", attr.UUID)
			}
		}
	})

	t.Run("every vendor is in the allow-list", func(t *testing.T) {
		allowed := make(map[string]bool)
		for _, v := range Vendors() {
			allowed[v] = true
		}
		for _, attr := range catalog {
			if !allowed[attr.Vendor] {
				t.Errorf("vendor %q of %s missing from Vendors()", attr.Vendor, attr.UUID)
			}
		}
	})
}

func TestApply_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, skipped, err := Apply(ctx, repo)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if created != len(Catalog()) {
		t.Errorf("created = %d, want %d", created, len(Catalog()))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}

	// Second run creates nothing
	created, skipped, err = Apply(ctx, repo)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if created != 0 {
		t.Errorf("second run created = %d, want 0", created)
	}
	if skipped != len(Catalog()) {
		t.Errorf("second run skipped = %d, want %d", skipped, len(Catalog()))
	}
}

func TestApply_PreservesUserRecords(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// A user record colliding with a seed UUID keeps its content.
	user := &attribute.Attribute{
		UUID:        "1800",
		Vendor:      "Contributed",
		Description: "My Generic Access",
		Type:        attribute.TypeService,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, _, err := Apply(ctx, repo); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	got, err := repo.GetByUUID(ctx, "1800")
	if err != nil {
		t.Fatalf("GetByUUID() error = %v", err)
	}
	if got.Vendor != "Contributed" {
		t.Errorf("Vendor = %q, want Contributed (seed must not overwrite)", got.Vendor)
	}
}

func TestClear_RemovesOnlySeedVendors(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if _, _, err := Apply(ctx, repo); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// One record from a non-seed vendor
	user := &attribute.Attribute{
		UUID:        "CUSTOM-1",
		Vendor:      "Contributed",
		Description: "User Service",
		Type:        attribute.TypeService,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// And one user characteristic under a seeded service
	parent := "1800"
	userChild := &attribute.Attribute{
		UUID:        "CUSTOM-2",
		Vendor:      "Contributed",
		Description: "User Characteristic",
		Type:        attribute.TypeCharacteristic,
		ServiceUUID: &parent,
	}
	if err := repo.Create(ctx, userChild); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	removed, err := Clear(ctx, repo)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != len(Catalog()) {
		t.Errorf("removed = %d, want %d", removed, len(Catalog()))
	}

	attrs, err := repo.List(ctx, attribute.Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(attrs) != 2 {
		t.Fatalf("List() after Clear = %d rows, want CUSTOM-1 and CUSTOM-2", len(attrs))
	}

	// The user characteristic loses its parent but survives
	got, err := repo.GetByUUID(ctx, "CUSTOM-2")
	if err != nil {
		t.Fatalf("GetByUUID(CUSTOM-2) error = %v", err)
	}
	if got.ServiceUUID != nil {
		t.Errorf("ServiceUUID = %v, want nil after seed service removal", *got.ServiceUUID)
	}
}

func TestGeneratedUUIDs_Deterministic(t *testing.T) {
	s1, c1 := generatedUUIDs("6C53DB", 0, 1)
	s2, c2 := generatedUUIDs("6C53DB", 0, 1)
	if s1 != s2 || c1 != c2 {
		t.Errorf("generatedUUIDs not deterministic: (%s,%s) vs (%s,%s)", s1, c1, s2, c2)
	}

	t.Run("even vendor index uses short codes", func(t *testing.T) {
		svc, char := generatedUUIDs("6C53DB", 0, 2)
		if svc != "6C53DB02" {
			t.Errorf("service UUID = %q, want 6C53DB02", svc)
		}
		if char != "6C53DB021" {
			t.Errorf("characteristic UUID = %q, want 6C53DB021", char)
		}
	})

	t.Run("odd vendor index uses long form", func(t *testing.T) {
		svc, char := generatedUUIDs("395F8D", 1, 0)
		if svc != "395F8D-0000-4000-B000-000000000001" {
			t.Errorf("service UUID = %q", svc)
		}
		if char != svc+"0001" {
			t.Errorf("characteristic UUID = %q, want service+0001", char)
		}
	})
}
