// Package store persists accounts, role profiles and media attachments.
//
// All queries are written once with "?" placeholders; the PostgreSQL backend
// rebinds them to "$n" before handing them to pgx.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gopher93185789/redshow/pkg/types"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	CreateAccount(ctx context.Context, a *types.Account) error
	AccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error)
	AccountByUsername(ctx context.Context, username string) (*types.Account, error)
	AccountByEmail(ctx context.Context, email string) (*types.Account, error)
	// AccountByLogin matches the identifier against the username, then the email.
	AccountByLogin(ctx context.Context, identifier string) (*types.Account, error)
	UpdateAccount(ctx context.Context, a *types.Account) error

	OwnerProfile(ctx context.Context, accountID uuid.UUID) (*types.OwnerProfile, error)
	CreateOwnerProfile(ctx context.Context, p *types.OwnerProfile) error
	UpdateOwnerProfile(ctx context.Context, p *types.OwnerProfile) error

	ArtistProfile(ctx context.Context, accountID uuid.UUID) (*types.ArtistProfile, error)
	CreateArtistProfile(ctx context.Context, p *types.ArtistProfile) error
	UpdateArtistProfile(ctx context.Context, p *types.ArtistProfile) error

	AddMedia(ctx context.Context, m *types.MediaAttachment) error
	ListMedia(ctx context.Context, accountID uuid.UUID) ([]types.MediaAttachment, error)
	// DeleteMedia removes the attachment owned by accountID and calls remove
	// before committing. When remove fails nothing is deleted.
	DeleteMedia(ctx context.Context, accountID, mediaID uuid.UUID, remove func(types.MediaAttachment) error) error

	Close()
}

type row interface {
	Scan(dest ...any) error
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type querier interface {
	Exec(ctx context.Context, q string, args ...any) (int64, error)
	QueryRow(ctx context.Context, q string, args ...any) row
	Query(ctx context.Context, q string, args ...any) (rows, error)
}

type backend interface {
	querier
	InTx(ctx context.Context, fn func(q querier) error) error
	IsNoRows(err error) bool
	IsUniqueViolation(err error) bool
	// JSONArg adapts an encoded JSON document to the column type.
	JSONArg(b []byte) any
	Close()
}

// DB implements Store on top of a SQL backend.
type DB struct {
	b backend
}

func (d *DB) Close() { d.b.Close() }

func (d *DB) wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case d.b.IsNoRows(err):
		return ErrNotFound
	case d.b.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

/*****************************************************
 *                    ACCOUNTS                       *
 *****************************************************/
const accountColumns = `id, username, email, password_hash, first_name, last_name, role,
	phone, birth_date, dni, profile_image, active, created_at, updated_at`

func scanAccount(r row) (*types.Account, error) {
	var (
		a     types.Account
		role  string
		birth sql.NullTime
	)
	err := r.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&role,
		&a.Phone,
		&birth,
		&a.DNI,
		&a.ProfileImage,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Role = types.Role(role)
	if birth.Valid {
		t := birth.Time
		a.BirthDate = &t
	}
	return &a, nil
}

func (d *DB) CreateAccount(ctx context.Context, a *types.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	q := `INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.b.Exec(ctx, q,
		a.ID,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.FirstName,
		a.LastName,
		string(a.Role),
		a.Phone,
		a.BirthDate,
		a.DNI,
		a.ProfileImage,
		a.Active,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return d.wrap("create account", err)
}

func (d *DB) AccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	a, err := scanAccount(d.b.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	return a, d.wrap("account by id", err)
}

func (d *DB) AccountByUsername(ctx context.Context, username string) (*types.Account, error) {
	a, err := scanAccount(d.b.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
	return a, d.wrap("account by username", err)
}

func (d *DB) AccountByEmail(ctx context.Context, email string) (*types.Account, error) {
	a, err := scanAccount(d.b.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE LOWER(email) = LOWER(?)`, email))
	return a, d.wrap("account by email", err)
}

// AccountByLogin resolves identifier as a username first and only falls
// back to the email address when no username matches exactly.
func (d *DB) AccountByLogin(ctx context.Context, identifier string) (*types.Account, error) {
	a, err := d.AccountByUsername(ctx, identifier)
	if !errors.Is(err, ErrNotFound) {
		return a, err
	}
	return d.AccountByEmail(ctx, identifier)
}

func (d *DB) UpdateAccount(ctx context.Context, a *types.Account) error {
	a.UpdatedAt = time.Now().UTC()

	q := `UPDATE accounts
		SET email = ?, first_name = ?, last_name = ?, phone = ?, birth_date = ?,
			dni = ?, profile_image = ?, active = ?, updated_at = ?
		WHERE id = ?`

	n, err := d.b.Exec(ctx, q,
		a.Email,
		a.FirstName,
		a.LastName,
		a.Phone,
		a.BirthDate,
		a.DNI,
		a.ProfileImage,
		a.Active,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return d.wrap("update account", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

/*****************************************************
 *                 OWNER PROFILES                    *
 *****************************************************/
const ownerColumns = `id, account_id, business_name, business_type, address, city, province,
	capacity, description, contact_alt, schedule_text, schedule, additional_services,
	hiring_policies, cuit_cuil, created_at, updated_at`

func scanOwner(r row) (*types.OwnerProfile, error) {
	var (
		p        types.OwnerProfile
		sched    []byte
		services []byte
	)
	err := r.Scan(
		&p.ID,
		&p.AccountID,
		&p.BusinessName,
		&p.BusinessType,
		&p.Address,
		&p.City,
		&p.Province,
		&p.Capacity,
		&p.Description,
		&p.ContactAlt,
		&p.ScheduleText,
		&sched,
		&services,
		&p.HiringPolicies,
		&p.CUIT,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.Schedule, err = decodeSchedule(sched); err != nil {
		return nil, err
	}
	if err := decodeJSON(services, &p.AdditionalServices); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) OwnerProfile(ctx context.Context, accountID uuid.UUID) (*types.OwnerProfile, error) {
	p, err := scanOwner(d.b.QueryRow(ctx, `SELECT `+ownerColumns+` FROM owner_profiles WHERE account_id = ?`, accountID))
	return p, d.wrap("owner profile", err)
}

func (d *DB) CreateOwnerProfile(ctx context.Context, p *types.OwnerProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	sched, services, err := encodeOwnerJSON(p)
	if err != nil {
		return err
	}

	q := `INSERT INTO owner_profiles (` + ownerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = d.b.Exec(ctx, q,
		p.ID,
		p.AccountID,
		p.BusinessName,
		p.BusinessType,
		p.Address,
		p.City,
		p.Province,
		p.Capacity,
		p.Description,
		p.ContactAlt,
		p.ScheduleText,
		d.b.JSONArg(sched),
		d.b.JSONArg(services),
		p.HiringPolicies,
		p.CUIT,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return d.wrap("create owner profile", err)
}

func (d *DB) UpdateOwnerProfile(ctx context.Context, p *types.OwnerProfile) error {
	p.UpdatedAt = time.Now().UTC()

	sched, services, err := encodeOwnerJSON(p)
	if err != nil {
		return err
	}

	q := `UPDATE owner_profiles
		SET business_name = ?, business_type = ?, address = ?, city = ?, province = ?,
			capacity = ?, description = ?, contact_alt = ?, schedule_text = ?, schedule = ?,
			additional_services = ?, hiring_policies = ?, cuit_cuil = ?, updated_at = ?
		WHERE account_id = ?`

	n, err := d.b.Exec(ctx, q,
		p.BusinessName,
		p.BusinessType,
		p.Address,
		p.City,
		p.Province,
		p.Capacity,
		p.Description,
		p.ContactAlt,
		p.ScheduleText,
		d.b.JSONArg(sched),
		d.b.JSONArg(services),
		p.HiringPolicies,
		p.CUIT,
		p.UpdatedAt,
		p.AccountID,
	)
	if err != nil {
		return d.wrap("update owner profile", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

/*****************************************************
 *                 ARTIST PROFILES                   *
 *****************************************************/
const artistColumns = `id, account_id, stage_name, category, experience_years, portfolio_url,
	bio, instagram, tiktok, facebook, other_socials, location, neighborhood, availability,
	availability_text, created_at, updated_at`

func scanArtist(r row) (*types.ArtistProfile, error) {
	var (
		p        types.ArtistProfile
		category string
		avail    []byte
	)
	err := r.Scan(
		&p.ID,
		&p.AccountID,
		&p.StageName,
		&category,
		&p.ExperienceYears,
		&p.PortfolioURL,
		&p.Bio,
		&p.Instagram,
		&p.TikTok,
		&p.Facebook,
		&p.OtherSocials,
		&p.Location,
		&p.Neighborhood,
		&avail,
		&p.AvailabilityText,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Category = types.Category(category)
	if p.Availability, err = decodeSchedule(avail); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) ArtistProfile(ctx context.Context, accountID uuid.UUID) (*types.ArtistProfile, error) {
	p, err := scanArtist(d.b.QueryRow(ctx, `SELECT `+artistColumns+` FROM artist_profiles WHERE account_id = ?`, accountID))
	return p, d.wrap("artist profile", err)
}

func (d *DB) CreateArtistProfile(ctx context.Context, p *types.ArtistProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	avail, err := encodeJSON(nonNilSchedule(p.Availability))
	if err != nil {
		return err
	}

	q := `INSERT INTO artist_profiles (` + artistColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = d.b.Exec(ctx, q,
		p.ID,
		p.AccountID,
		p.StageName,
		string(p.Category),
		p.ExperienceYears,
		p.PortfolioURL,
		p.Bio,
		p.Instagram,
		p.TikTok,
		p.Facebook,
		p.OtherSocials,
		p.Location,
		p.Neighborhood,
		d.b.JSONArg(avail),
		p.AvailabilityText,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return d.wrap("create artist profile", err)
}

func (d *DB) UpdateArtistProfile(ctx context.Context, p *types.ArtistProfile) error {
	p.UpdatedAt = time.Now().UTC()

	avail, err := encodeJSON(nonNilSchedule(p.Availability))
	if err != nil {
		return err
	}

	q := `UPDATE artist_profiles
		SET stage_name = ?, category = ?, experience_years = ?, portfolio_url = ?, bio = ?,
			instagram = ?, tiktok = ?, facebook = ?, other_socials = ?, location = ?,
			neighborhood = ?, availability = ?, availability_text = ?, updated_at = ?
		WHERE account_id = ?`

	n, err := d.b.Exec(ctx, q,
		p.StageName,
		string(p.Category),
		p.ExperienceYears,
		p.PortfolioURL,
		p.Bio,
		p.Instagram,
		p.TikTok,
		p.Facebook,
		p.OtherSocials,
		p.Location,
		p.Neighborhood,
		d.b.JSONArg(avail),
		p.AvailabilityText,
		p.UpdatedAt,
		p.AccountID,
	)
	if err != nil {
		return d.wrap("update artist profile", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

/*****************************************************
 *                      MEDIA                        *
 *****************************************************/
const mediaColumns = `id, account_id, file, media_type, content_type, created_at`

func scanMedia(r row) (*types.MediaAttachment, error) {
	var (
		m         types.MediaAttachment
		mediaType string
	)
	if err := r.Scan(&m.ID, &m.AccountID, &m.File, &mediaType, &m.ContentType, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.MediaType = types.MediaType(mediaType)
	return &m, nil
}

func (d *DB) AddMedia(ctx context.Context, m *types.MediaAttachment) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()

	q := `INSERT INTO profile_media (` + mediaColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := d.b.Exec(ctx, q, m.ID, m.AccountID, m.File, string(m.MediaType), m.ContentType, m.CreatedAt)
	return d.wrap("add media", err)
}

func (d *DB) ListMedia(ctx context.Context, accountID uuid.UUID) ([]types.MediaAttachment, error) {
	q := `SELECT ` + mediaColumns + ` FROM profile_media WHERE account_id = ? ORDER BY created_at DESC, id`

	rs, err := d.b.Query(ctx, q, accountID)
	if err != nil {
		return nil, d.wrap("list media", err)
	}
	defer rs.Close()

	media := []types.MediaAttachment{}
	for rs.Next() {
		m, err := scanMedia(rs)
		if err != nil {
			return nil, d.wrap("list media", err)
		}
		media = append(media, *m)
	}

	if err := rs.Err(); err != nil {
		return nil, d.wrap("list media", err)
	}
	return media, nil
}

func (d *DB) DeleteMedia(ctx context.Context, accountID, mediaID uuid.UUID, remove func(types.MediaAttachment) error) error {
	err := d.b.InTx(ctx, func(q querier) error {
		sel := `SELECT ` + mediaColumns + ` FROM profile_media WHERE id = ? AND account_id = ?`
		m, err := scanMedia(q.QueryRow(ctx, sel, mediaID, accountID))
		if err != nil {
			return err
		}

		n, err := q.Exec(ctx, `DELETE FROM profile_media WHERE id = ? AND account_id = ?`, mediaID, accountID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		return remove(*m)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return d.wrap("delete media", err)
}

/*****************************************************
 *                      JSON                         *
 *****************************************************/
func encodeJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return b, nil
}

func decodeJSON(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

func decodeSchedule(b []byte) (types.WeeklySchedule, error) {
	s := types.WeeklySchedule{}
	if err := decodeJSON(b, &s); err != nil {
		return nil, err
	}
	return nonNilSchedule(s), nil
}

func nonNilSchedule(s types.WeeklySchedule) types.WeeklySchedule {
	if s == nil {
		return types.WeeklySchedule{}
	}
	return s
}

func encodeOwnerJSON(p *types.OwnerProfile) (sched, services []byte, err error) {
	if sched, err = encodeJSON(nonNilSchedule(p.Schedule)); err != nil {
		return nil, nil, err
	}

	list := p.AdditionalServices
	if list == nil {
		list = []string{}
	}
	if services, err = encodeJSON(list); err != nil {
		return nil, nil, err
	}
	return sched, services, nil
}
