// Package sqlite is the durable Store backend, held in a single SQLite
// database file in WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/reliefgrid/reliefgrid/internal/geo"
	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// New opens (or creates) the database at path and ensures the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires a Store over an existing connection (used by the factory
// and by tests running against a private in-memory database).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ensure sqlite schema")
	}
	return &sqlStore{db: db}, nil
}

type sqlStore struct{ db *sql.DB }

func (s *sqlStore) Users() store.Users         { return &users{db: s.db} }
func (s *sqlStore) Disasters() store.Disasters { return &disasters{db: s.db} }
func (s *sqlStore) Reports() store.Reports     { return &reports{db: s.db} }
func (s *sqlStore) Resources() store.Resources { return &resources{db: s.db} }
func (s *sqlStore) Close() error               { return s.db.Close() }

// HealthPing implements health.Pinger for the SQLite-backed store.
func (s *sqlStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	now := time.Now().UTC()
	res, err := u.db.ExecContext(ctx, `
        INSERT INTO users (username, password, role, created_at)
        VALUES (?,?,?,?)
    `, req.Username, req.Password, req.Role, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.User{ID: id, Username: req.Username, Password: req.Password, Role: req.Role, CreatedAt: now}, nil
}

func (u *users) Get(ctx context.Context, id int64) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT id, username, password, role, created_at FROM users WHERE id=?
    `, id)
	return scanUser(row)
}

func (u *users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT id, username, password, role, created_at FROM users WHERE username=? LIMIT 1
    `, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.ID, &out.Username, &out.Password, &out.Role, &out.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// --- Disasters ---

type disasters struct{ db *sql.DB }

func (d *disasters) Create(ctx context.Context, req model.CreateDisasterRequest) (*model.Disaster, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO disasters (title, description, location_name, tags, owner_id, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?)
    `, req.Title, req.Description, req.LocationName, string(tagsJSON), req.OwnerID, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Seed the audit trail in the same transaction as the record itself so
	// len(trail) >= 1 holds for every disaster that ever becomes visible.
	if err := appendAudit(ctx, tx, id, model.AuditCreate, req.OwnerID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Disaster{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		LocationName: req.LocationName,
		Tags:         tags,
		OwnerID:      req.OwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
		AuditTrail:   []model.AuditEntry{{Action: model.AuditCreate, ActorID: req.OwnerID, Timestamp: now}},
	}, nil
}

func (d *disasters) Get(ctx context.Context, id int64) (*model.Disaster, error) {
	row := d.db.QueryRowContext(ctx, `
        SELECT id, title, description, location_name, latitude, longitude, tags, owner_id, created_at, updated_at
        FROM disasters WHERE id=?
    `, id)
	out, err := scanDisaster(row)
	if err != nil || out == nil {
		return nil, err
	}
	out.AuditTrail, err = loadAudit(ctx, d.db, id)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *disasters) List(ctx context.Context, f model.DisasterFilter) ([]*model.Disaster, error) {
	query := `SELECT id, title, description, location_name, latitude, longitude, tags, owner_id, created_at, updated_at
              FROM disasters`
	var args []interface{}
	if f.OwnerID != "" {
		query += ` WHERE owner_id=?`
		args = append(args, f.OwnerID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Disaster
	for rows.Next() {
		dd, err := scanDisasterRows(rows)
		if err != nil {
			return nil, err
		}
		// Tag sets live as JSON text; membership is tested after the scan.
		if f.Tag != "" && !dd.HasTag(f.Tag) {
			continue
		}
		out = append(out, dd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, dd := range out {
		if dd.AuditTrail, err = loadAudit(ctx, d.db, dd.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *disasters) Update(ctx context.Context, id int64, upd model.DisasterUpdate) (*model.Disaster, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
        SELECT id, title, description, location_name, latitude, longitude, tags, owner_id, created_at, updated_at
        FROM disasters WHERE id=?
    `, id)
	cur, err := scanDisaster(row)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		// Nothing exists and nothing is written; the rollback is a no-op.
		return nil, nil
	}

	actor := cur.OwnerID
	if upd.OwnerID != nil {
		actor = *upd.OwnerID
	}
	applyDisasterUpdate(cur, upd)
	now := time.Now().UTC()
	cur.UpdatedAt = now

	tagsJSON, err := json.Marshal(cur.Tags)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE disasters SET title=?, description=?, location_name=?, latitude=?, longitude=?, tags=?, owner_id=?, updated_at=?
        WHERE id=?
    `, cur.Title, cur.Description, cur.LocationName, nullFloat(cur.Latitude), nullFloat(cur.Longitude),
		string(tagsJSON), cur.OwnerID, now, id); err != nil {
		return nil, err
	}
	if err := appendAudit(ctx, tx, id, model.AuditUpdate, actor, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if cur.AuditTrail, err = loadAudit(ctx, d.db, id); err != nil {
		return nil, err
	}
	return cur, nil
}

func (d *disasters) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM disasters WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	// The trail belongs to the record; child reports and resources do not
	// and are deliberately left behind.
	if _, err := tx.ExecContext(ctx, `DELETE FROM disaster_audit WHERE disaster_id=?`, id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func applyDisasterUpdate(cur *model.Disaster, upd model.DisasterUpdate) {
	if upd.Title != nil {
		cur.Title = *upd.Title
	}
	if upd.Description != nil {
		cur.Description = *upd.Description
	}
	if upd.LocationName != nil {
		cur.LocationName = *upd.LocationName
	}
	if upd.Latitude != nil {
		v := *upd.Latitude
		cur.Latitude = &v
	}
	if upd.Longitude != nil {
		v := *upd.Longitude
		cur.Longitude = &v
	}
	if upd.Tags != nil {
		cur.Tags = append([]string(nil), (*upd.Tags)...)
	}
	if upd.OwnerID != nil {
		cur.OwnerID = *upd.OwnerID
	}
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanDisaster(row *sql.Row) (*model.Disaster, error) {
	out, err := scanDisasterFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return out, err
}

func scanDisasterRows(rows *sql.Rows) (*model.Disaster, error) {
	return scanDisasterFrom(rows)
}

func scanDisasterFrom(r rowScanner) (*model.Disaster, error) {
	var out model.Disaster
	var lat, lon sql.NullFloat64
	var tagsJSON string
	if err := r.Scan(&out.ID, &out.Title, &out.Description, &out.LocationName,
		&lat, &lon, &tagsJSON, &out.OwnerID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		out.Latitude = &lat.Float64
	}
	if lon.Valid {
		out.Longitude = &lon.Float64
	}
	if err := json.Unmarshal([]byte(tagsJSON), &out.Tags); err != nil {
		return nil, errors.Wrapf(err, "disaster %d: decode tags", out.ID)
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return &out, nil
}

// appendAudit writes the next entry of a disaster's trail inside the owning
// transaction. Entries are only ever inserted, never updated or deleted,
// and seq preserves append order even when timestamps collide.
func appendAudit(ctx context.Context, tx *sql.Tx, disasterID int64, action, actorID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO disaster_audit (disaster_id, seq, action, actor_id, at)
        SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?
        FROM disaster_audit WHERE disaster_id=?
    `, disasterID, action, actorID, at, disasterID)
	return err
}

func loadAudit(ctx context.Context, db *sql.DB, disasterID int64) ([]model.AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT action, actor_id, at FROM disaster_audit WHERE disaster_id=? ORDER BY seq
    `, disasterID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.Action, &e.ActorID, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- Reports ---

type reports struct{ db *sql.DB }

func (r *reports) Create(ctx context.Context, req model.CreateReportRequest) (*model.Report, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO reports (disaster_id, user_id, content, image_url, verification_status, created_at)
        VALUES (?,?,?,?,?,?)
    `, req.DisasterID, req.UserID, req.Content, nullString(req.ImageURL), model.StatusPending, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Report{
		ID:                 id,
		DisasterID:         req.DisasterID,
		UserID:             req.UserID,
		Content:            req.Content,
		ImageURL:           req.ImageURL,
		VerificationStatus: model.StatusPending,
		CreatedAt:          now,
	}, nil
}

func (r *reports) Get(ctx context.Context, id int64) (*model.Report, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, disaster_id, user_id, content, image_url, verification_status, created_at
        FROM reports WHERE id=?
    `, id)
	out, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return out, err
}

func (r *reports) List(ctx context.Context, disasterID *int64) ([]*model.Report, error) {
	query := `SELECT id, disaster_id, user_id, content, image_url, verification_status, created_at FROM reports`
	var args []interface{}
	if disasterID != nil {
		query += ` WHERE disaster_id=?`
		args = append(args, *disasterID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *reports) Update(ctx context.Context, id int64, upd model.ReportUpdate) (*model.Report, error) {
	cur, err := r.Get(ctx, id)
	if err != nil || cur == nil {
		return nil, err
	}
	if upd.Content != nil {
		cur.Content = *upd.Content
	}
	if upd.ImageURL != nil {
		v := *upd.ImageURL
		cur.ImageURL = &v
	}
	if upd.VerificationStatus != nil {
		cur.VerificationStatus = *upd.VerificationStatus
	}
	if _, err := r.db.ExecContext(ctx, `
        UPDATE reports SET content=?, image_url=?, verification_status=? WHERE id=?
    `, cur.Content, nullString(cur.ImageURL), cur.VerificationStatus, id); err != nil {
		return nil, err
	}
	return cur, nil
}

func scanReport(r rowScanner) (*model.Report, error) {
	var out model.Report
	var img sql.NullString
	if err := r.Scan(&out.ID, &out.DisasterID, &out.UserID, &out.Content, &img, &out.VerificationStatus, &out.CreatedAt); err != nil {
		return nil, err
	}
	if img.Valid {
		out.ImageURL = &img.String
	}
	return &out, nil
}

// --- Resources ---

type resources struct{ db *sql.DB }

func (s *resources) Create(ctx context.Context, req model.CreateResourceRequest) (*model.Resource, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO resources (disaster_id, name, location_name, type, created_at)
        VALUES (?,?,?,?,?)
    `, req.DisasterID, req.Name, req.LocationName, req.Type, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Resource{
		ID:           id,
		DisasterID:   req.DisasterID,
		Name:         req.Name,
		LocationName: req.LocationName,
		Type:         req.Type,
		CreatedAt:    now,
	}, nil
}

func (s *resources) Get(ctx context.Context, id int64) (*model.Resource, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, disaster_id, name, location_name, type, latitude, longitude, created_at
        FROM resources WHERE id=?
    `, id)
	out, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return out, err
}

func (s *resources) List(ctx context.Context, disasterID *int64) ([]*model.Resource, error) {
	query := `SELECT id, disaster_id, name, location_name, type, latitude, longitude, created_at FROM resources`
	var args []interface{}
	if disasterID != nil {
		query += ` WHERE disaster_id=?`
		args = append(args, *disasterID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Resource
	for rows.Next() {
		rs, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (s *resources) ListNear(ctx context.Context, lat, lon, radiusKm float64) ([]*model.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, disaster_id, name, location_name, type, latitude, longitude, created_at
        FROM resources WHERE latitude IS NOT NULL AND longitude IS NOT NULL
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	center := geo.Point{Lat: lat, Lon: lon}
	var out []*model.Resource
	for rows.Next() {
		rs, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		if geo.WithinRadius(center, geo.Point{Lat: *rs.Latitude, Lon: *rs.Longitude}, radiusKm) {
			out = append(out, rs)
		}
	}
	return out, rows.Err()
}

func (s *resources) Update(ctx context.Context, id int64, upd model.ResourceUpdate) (*model.Resource, error) {
	cur, err := s.Get(ctx, id)
	if err != nil || cur == nil {
		return nil, err
	}
	if upd.Name != nil {
		cur.Name = *upd.Name
	}
	if upd.LocationName != nil {
		cur.LocationName = *upd.LocationName
	}
	if upd.Type != nil {
		cur.Type = *upd.Type
	}
	if upd.Latitude != nil {
		v := *upd.Latitude
		cur.Latitude = &v
	}
	if upd.Longitude != nil {
		v := *upd.Longitude
		cur.Longitude = &v
	}
	if _, err := s.db.ExecContext(ctx, `
        UPDATE resources SET name=?, location_name=?, type=?, latitude=?, longitude=? WHERE id=?
    `, cur.Name, cur.LocationName, cur.Type, nullFloat(cur.Latitude), nullFloat(cur.Longitude), id); err != nil {
		return nil, err
	}
	return cur, nil
}

func scanResource(r rowScanner) (*model.Resource, error) {
	var out model.Resource
	var lat, lon sql.NullFloat64
	if err := r.Scan(&out.ID, &out.DisasterID, &out.Name, &out.LocationName, &out.Type, &lat, &lon, &out.CreatedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		out.Latitude = &lat.Float64
	}
	if lon.Valid {
		out.Longitude = &lon.Float64
	}
	return &out, nil
}

// helpers

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
