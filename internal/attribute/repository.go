package attribute

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// defaultListLimit caps list results when the caller gives no limit.
const defaultListLimit = 100

// Repository defines the interface for attribute persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// Create inserts a new attribute after running the integrity rules.
	// Returns ErrExists, ErrMissingParent or ErrInvalidParent on violation.
	Create(ctx context.Context, attr *Attribute) error

	// CreateBatch inserts attributes in order within a single transaction.
	// The whole batch is rolled back on the first failure.
	CreateBatch(ctx context.Context, attrs []*Attribute) error

	// CreateBatchSkipExisting inserts attributes in order within a single
	// transaction, skipping any whose UUID already exists. Returns the
	// number created and the number skipped.
	CreateBatchSkipExisting(ctx context.Context, attrs []*Attribute) (created, skipped int, err error)

	// GetByUUID retrieves an attribute with its direct children attached.
	// Returns ErrNotFound if the UUID does not exist.
	GetByUUID(ctx context.Context, uuid string) (*Attribute, error)

	// List retrieves attributes matching the filter, children attached.
	List(ctx context.Context, filter Filter) ([]Attribute, error)

	// Update applies an allow-listed patch and re-runs the integrity rules
	// on the resulting record. Returns ErrNotFound if the UUID does not exist.
	Update(ctx context.Context, uuid string, patch Patch) (*Attribute, error)

	// Delete removes an attribute. Deleting a service with children fails
	// with a *ChildrenError; non-service deletion is unconditional.
	Delete(ctx context.Context, uuid string) error

	// ForceDelete removes a service and all of its children in one
	// transaction. Returns the number of children removed.
	ForceDelete(ctx context.Context, uuid string) (int, error)

	// OrphanDelete clears the children's service_uuid then removes the
	// service, in one transaction. Returns the number of children orphaned.
	// Returns ErrNotService when the target is not a service.
	OrphanDelete(ctx context.Context, uuid string) (int, error)

	// DeleteByVendors removes every attribute whose vendor is in the list.
	// Returns the number of rows removed.
	DeleteByVendors(ctx context.Context, vendors []string) (int, error)
}

// Filter narrows List results.
type Filter struct {
	// Search is a case-insensitive substring matched against uuid, vendor,
	// model and description. Empty means no text filter.
	Search string

	// Type restricts results to one attribute type. Empty means all types.
	Type Type

	// TopLevelOnly restricts results to rows without a parent reference
	// when no Type filter is given. The zero value lists every row,
	// children included.
	TopLevelOnly bool

	// Skip and Limit page through results. Limit <= 0 uses the default.
	Skip  int
	Limit int
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// querier abstracts *sql.DB and *sql.Tx so integrity checks run against
// whichever the caller holds.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const attributeColumns = `uuid, vendor, model, description, attribute_type, service_uuid,
	sample_data, can_read, can_write, can_indicate, can_notify, comment,
	created_at, updated_at`

// Create inserts a new attribute.
func (r *SQLiteRepository) Create(ctx context.Context, attr *Attribute) error {
	if err := attr.Validate(); err != nil {
		return err
	}
	if err := checkParent(ctx, r.db, attr); err != nil {
		return err
	}
	return insertAttribute(ctx, r.db, attr)
}

// CreateBatch inserts attributes in order within a single transaction.
// Callers persisting parsed logs put services before characteristics so
// parent references resolve by insert time.
func (r *SQLiteRepository) CreateBatch(ctx context.Context, attrs []*Attribute) error {
	if len(attrs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	for _, attr := range attrs {
		if err := attr.Validate(); err != nil {
			return fmt.Errorf("attribute %s: %w", attr.UUID, err)
		}
		if err := checkParent(ctx, tx, attr); err != nil {
			return fmt.Errorf("attribute %s: %w", attr.UUID, err)
		}
		if err := insertAttribute(ctx, tx, attr); err != nil {
			return fmt.Errorf("attribute %s: %w", attr.UUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// CreateBatchSkipExisting inserts attributes, skipping UUIDs already present.
func (r *SQLiteRepository) CreateBatchSkipExisting(ctx context.Context, attrs []*Attribute) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var created, skipped int
	for _, attr := range attrs {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM ble_attributes WHERE uuid = ?", attr.UUID,
		).Scan(&exists)
		if err != nil {
			return 0, 0, fmt.Errorf("checking %s: %w", attr.UUID, err)
		}
		if exists > 0 {
			skipped++
			continue
		}

		if err := attr.Validate(); err != nil {
			return 0, 0, fmt.Errorf("attribute %s: %w", attr.UUID, err)
		}
		if err := checkParent(ctx, tx, attr); err != nil {
			return 0, 0, fmt.Errorf("attribute %s: %w", attr.UUID, err)
		}
		if err := insertAttribute(ctx, tx, attr); err != nil {
			return 0, 0, fmt.Errorf("attribute %s: %w", attr.UUID, err)
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing batch: %w", err)
	}
	return created, skipped, nil
}

// GetByUUID retrieves an attribute with its direct children attached.
func (r *SQLiteRepository) GetByUUID(ctx context.Context, uuid string) (*Attribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM ble_attributes WHERE uuid = ?`

	attr, err := scanAttribute(r.db.QueryRowContext(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying attribute by uuid: %w", err)
	}

	children, err := r.listChildren(ctx, uuid)
	if err != nil {
		return nil, err
	}
	attr.Children = children
	return attr, nil
}

// List retrieves attributes matching the filter, children attached.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]Attribute, error) {
	var conds []string
	var args []any

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds,
			"(uuid LIKE ? OR vendor LIKE ? OR model LIKE ? OR description LIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}

	switch {
	case filter.Type != "":
		conds = append(conds, "attribute_type = ?")
		args = append(args, string(filter.Type))
	case filter.TopLevelOnly:
		// Top-level rows only: anything without a parent reference.
		conds = append(conds, "service_uuid IS NULL")
	}

	query := `SELECT ` + attributeColumns + ` FROM ble_attributes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, uuid LIMIT ? OFFSET ?"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, filter.Skip)

	attrs, err := queryAttributes(ctx, r.db, query, args...)
	if err != nil {
		return nil, err
	}

	if err := r.attachChildren(ctx, attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// Update applies a patch and re-runs the integrity rules on the result.
func (r *SQLiteRepository) Update(ctx context.Context, uuid string, patch Patch) (*Attribute, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	query := `SELECT ` + attributeColumns + ` FROM ble_attributes WHERE uuid = ?`
	attr, err := scanAttribute(tx.QueryRowContext(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying attribute for update: %w", err)
	}

	patch.Apply(attr)

	// The source system accepted unvalidated updates; here the creation-time
	// rules are re-run so a patch cannot break the hierarchy.
	if err := attr.Validate(); err != nil {
		return nil, err
	}
	if err := checkParent(ctx, tx, attr); err != nil {
		return nil, err
	}

	attr.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE ble_attributes SET
			vendor = ?, model = ?, description = ?, attribute_type = ?,
			service_uuid = ?, sample_data = ?, can_read = ?, can_write = ?,
			can_indicate = ?, can_notify = ?, comment = ?, updated_at = ?
		WHERE uuid = ?`,
		attr.Vendor,
		attr.Model,
		attr.Description,
		string(attr.Type),
		nullableString(attr.ServiceUUID),
		nullableString(attr.SampleData),
		boolToInt(attr.CanRead),
		boolToInt(attr.CanWrite),
		boolToInt(attr.CanIndicate),
		boolToInt(attr.CanNotify),
		nullableString(attr.Comment),
		attr.UpdatedAt.Format(time.RFC3339),
		uuid,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("updating attribute: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return r.GetByUUID(ctx, uuid)
}

// Delete removes an attribute in plain mode.
func (r *SQLiteRepository) Delete(ctx context.Context, uuid string) error {
	attr, err := r.getBare(ctx, r.db, uuid)
	if err != nil {
		return err
	}

	if attr.Type == TypeService {
		count, err := countChildren(ctx, r.db, uuid)
		if err != nil {
			return err
		}
		if count > 0 {
			return &ChildrenError{Count: count}
		}
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM ble_attributes WHERE uuid = ?", uuid); err != nil {
		return fmt.Errorf("deleting attribute: %w", err)
	}
	return nil
}

// ForceDelete removes a service and all of its children in one transaction.
func (r *SQLiteRepository) ForceDelete(ctx context.Context, uuid string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := r.getBare(ctx, tx, uuid); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM ble_attributes WHERE service_uuid = ?", uuid)
	if err != nil {
		return 0, fmt.Errorf("deleting children: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted children: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ble_attributes WHERE uuid = ?", uuid); err != nil {
		return 0, fmt.Errorf("deleting attribute: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing force delete: %w", err)
	}
	return int(removed), nil
}

// OrphanDelete clears children's parent reference then removes the service.
func (r *SQLiteRepository) OrphanDelete(ctx context.Context, uuid string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	attr, err := r.getBare(ctx, tx, uuid)
	if err != nil {
		return 0, err
	}
	if attr.Type != TypeService {
		return 0, ErrNotService
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE ble_attributes SET service_uuid = NULL, updated_at = ?
		WHERE service_uuid = ?`,
		time.Now().UTC().Format(time.RFC3339),
		uuid,
	)
	if err != nil {
		return 0, fmt.Errorf("orphaning children: %w", err)
	}
	orphaned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting orphaned children: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ble_attributes WHERE uuid = ?", uuid); err != nil {
		return 0, fmt.Errorf("deleting attribute: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing orphan delete: %w", err)
	}
	return int(orphaned), nil
}

// DeleteByVendors removes every attribute whose vendor is in the list.
// Children are removed before parents so the foreign key holds mid-statement,
// and children kept (vendor outside the list) are detached from any parent
// being removed rather than left with a dangling reference.
func (r *SQLiteRepository) DeleteByVendors(ctx context.Context, vendors []string) (int, error) {
	if len(vendors) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(vendors)), ",")
	args := make([]any, 0, len(vendors))
	for _, v := range vendors {
		args = append(args, v)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	detachArgs := make([]any, 0, 2*len(vendors)+1)
	detachArgs = append(detachArgs, time.Now().UTC().Format(time.RFC3339))
	detachArgs = append(detachArgs, args...)
	detachArgs = append(detachArgs, args...)
	_, err = tx.ExecContext(ctx, `
		UPDATE ble_attributes SET service_uuid = NULL, updated_at = ?
		WHERE vendor NOT IN (`+placeholders+`)
		AND service_uuid IN (
			SELECT uuid FROM ble_attributes WHERE vendor IN (`+placeholders+`)
		)`, detachArgs...)
	if err != nil {
		return 0, fmt.Errorf("detaching surviving children: %w", err)
	}

	var total int64
	for _, query := range []string{
		"DELETE FROM ble_attributes WHERE vendor IN (" + placeholders + ") AND attribute_type != 'service'",
		"DELETE FROM ble_attributes WHERE vendor IN (" + placeholders + ")",
	} {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("deleting by vendor: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting deleted rows: %w", err)
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing vendor delete: %w", err)
	}
	return int(total), nil
}

// getBare fetches an attribute without children, mapping absence to ErrNotFound.
func (r *SQLiteRepository) getBare(ctx context.Context, q querier, uuid string) (*Attribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM ble_attributes WHERE uuid = ?`
	attr, err := scanAttribute(q.QueryRowContext(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying attribute: %w", err)
	}
	return attr, nil
}

// listChildren returns the direct children of one attribute.
func (r *SQLiteRepository) listChildren(ctx context.Context, uuid string) ([]Attribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM ble_attributes
		WHERE service_uuid = ? ORDER BY created_at, uuid`
	children, err := queryAttributes(ctx, r.db, query, uuid)
	if err != nil {
		return nil, err
	}
	for i := range children {
		children[i].Children = []Attribute{}
	}
	return children, nil
}

// attachChildren populates Children for every attribute in one query.
func (r *SQLiteRepository) attachChildren(ctx context.Context, attrs []Attribute) error {
	if len(attrs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(attrs)), ",")
	args := make([]any, 0, len(attrs))
	index := make(map[string]int, len(attrs))
	for i := range attrs {
		attrs[i].Children = []Attribute{}
		args = append(args, attrs[i].UUID)
		index[attrs[i].UUID] = i
	}

	query := `SELECT ` + attributeColumns + ` FROM ble_attributes
		WHERE service_uuid IN (` + placeholders + `) ORDER BY created_at, uuid`
	children, err := queryAttributes(ctx, r.db, query, args...)
	if err != nil {
		return err
	}

	for _, child := range children {
		child.Children = []Attribute{}
		if child.ServiceUUID == nil {
			continue
		}
		if i, ok := index[*child.ServiceUUID]; ok {
			attrs[i].Children = append(attrs[i].Children, child)
		}
	}
	return nil
}

// checkParent enforces the parent-service rule against current catalog state.
// Validate() has already required service_uuid for non-services; here the
// reference itself is resolved.
func checkParent(ctx context.Context, q querier, attr *Attribute) error {
	if attr.ServiceUUID == nil || *attr.ServiceUUID == "" {
		return nil
	}

	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM ble_attributes
		WHERE uuid = ? AND attribute_type = ?`,
		*attr.ServiceUUID, string(TypeService),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("resolving parent service: %w", err)
	}
	if count == 0 {
		return ErrInvalidParent
	}
	return nil
}

// insertAttribute writes one row, mapping unique violations to ErrExists.
func insertAttribute(ctx context.Context, q querier, attr *Attribute) error {
	now := time.Now().UTC()
	if attr.CreatedAt.IsZero() {
		attr.CreatedAt = now
	}
	attr.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO ble_attributes (
			uuid, vendor, model, description, attribute_type, service_uuid,
			sample_data, can_read, can_write, can_indicate, can_notify, comment,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attr.UUID,
		attr.Vendor,
		attr.Model,
		attr.Description,
		string(attr.Type),
		nullableString(attr.ServiceUUID),
		nullableString(attr.SampleData),
		boolToInt(attr.CanRead),
		boolToInt(attr.CanWrite),
		boolToInt(attr.CanIndicate),
		boolToInt(attr.CanNotify),
		nullableString(attr.Comment),
		attr.CreatedAt.Format(time.RFC3339),
		attr.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrExists
		}
		return fmt.Errorf("inserting attribute: %w", err)
	}
	return nil
}

// countChildren returns the number of direct children of uuid.
func countChildren(ctx context.Context, q querier, uuid string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM ble_attributes WHERE service_uuid = ?", uuid,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting children: %w", err)
	}
	return count, nil
}

// queryAttributes runs a multi-row attribute query.
func queryAttributes(ctx context.Context, q querier, query string, args ...any) ([]Attribute, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attributes: %w", err)
	}
	defer rows.Close()

	attrs := []Attribute{}
	for rows.Next() {
		attr, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		attrs = append(attrs, *attr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attributes: %w", err)
	}
	return attrs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAttribute reads one attribute row.
func scanAttribute(row rowScanner) (*Attribute, error) {
	var (
		attr        Attribute
		typeStr     string
		serviceUUID sql.NullString
		sampleData  sql.NullString
		comment     sql.NullString
		canRead     int
		canWrite    int
		canIndicate int
		canNotify   int
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(
		&attr.UUID,
		&attr.Vendor,
		&attr.Model,
		&attr.Description,
		&typeStr,
		&serviceUUID,
		&sampleData,
		&canRead,
		&canWrite,
		&canIndicate,
		&canNotify,
		&comment,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	attr.Type = Type(typeStr)
	if serviceUUID.Valid {
		attr.ServiceUUID = &serviceUUID.String
	}
	if sampleData.Valid {
		attr.SampleData = &sampleData.String
	}
	if comment.Valid {
		attr.Comment = &comment.String
	}
	attr.CanRead = canRead != 0
	attr.CanWrite = canWrite != 0
	attr.CanIndicate = canIndicate != 0
	attr.CanNotify = canNotify != 0
	attr.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	attr.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled
	attr.Children = []Attribute{}

	return &attr, nil
}

// nullableString converts *string to sql.NullString.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
