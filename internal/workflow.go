package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gopher93185789/redshow/internal/storage"
	"github.com/gopher93185789/redshow/internal/store"
	"github.com/gopher93185789/redshow/pkg/schedule"
	"github.com/gopher93185789/redshow/pkg/types"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Upload is a file received with a form.
type Upload struct {
	Filename string
	Data     []byte
}

// Submission is everything a profile operation needs from a request: the
// acting account, the posted fields and the uploaded files.
type Submission struct {
	Account *types.Account
	Form    url.Values
	Avatar  *Upload
	Files   []Upload
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

/*****************************************************
 *                 REGISTER / LOGIN                  *
 *****************************************************/
func (s *ServerContext) RegisterAccount(ctx context.Context, form url.Values) (*types.Account, error) {
	f := decodeRegisterForm(form)

	verr := &ValidationError{}
	s.check(f, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.store.AccountByUsername(ctx, f.Username); err == nil {
		verr.add("username", "Ya existe un usuario con este nombre.")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := s.store.AccountByEmail(ctx, f.Email); err == nil {
		verr.add("email", "Ya existe una cuenta con este correo electrónico.")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(f.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &types.Account{
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: hash,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Role:         types.Role(f.Role),
		Phone:        f.Phone,
		BirthDate:    parseDate(f.BirthDate),
		DNI:          f.DNI,
		Active:       true,
	}

	if err := s.store.CreateAccount(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, formError("El usuario o el correo electrónico ya están registrados.")
		}
		return nil, err
	}

	s.logger.Info("account registered", zap.String("username", a.Username), zap.String("role", string(a.Role)))
	return a, nil
}

// Authenticate checks the credentials of the login form. The identifier may
// be a username or an email address.
func (s *ServerContext) Authenticate(ctx context.Context, form url.Values) (*types.Account, error) {
	f := loginForm{
		Username: formValue(form, "username"),
		Password: form.Get("password"),
	}

	verr := &ValidationError{}
	s.check(f, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	a, err := s.store.AccountByLogin(ctx, f.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, formError("Usuario o contraseña incorrectos.")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(f.Password)); err != nil {
		return nil, formError("Usuario o contraseña incorrectos.")
	}

	if !a.Active {
		return nil, formError("Esta cuenta está inactiva.")
	}
	return a, nil
}

/*****************************************************
 *                PROFILE COMPLETION                 *
 *****************************************************/

// completionGate reports whether acc may complete the profile of role.
func (s *ServerContext) completionGate(ctx context.Context, acc *types.Account, role types.Role) error {
	if acc.Role != role {
		return ErrForbidden
	}

	complete, err := s.profileComplete(ctx, acc)
	if err != nil {
		return err
	}
	if complete {
		return ErrAlreadyCompleted
	}
	return nil
}

func (s *ServerContext) CompleteOwnerProfile(ctx context.Context, sub Submission) error {
	if err := s.completionGate(ctx, sub.Account, types.RoleOwner); err != nil {
		return err
	}

	verr := &ValidationError{}
	f := decodeOwnerForm(sub.Form, verr)
	s.check(f, verr)
	if err := verr.orNil(); err != nil {
		return err
	}

	p := &types.OwnerProfile{AccountID: sub.Account.ID}
	f.apply(p)
	p.AdditionalServices = formList(sub.Form, "services[]")
	p.Schedule = schedule.Parse(sub.Form, schedule.Weekdays, schedule.OwnerPrefix)
	if len(p.Schedule) > 0 {
		p.ScheduleText = schedule.Summary(p.Schedule, schedule.Weekdays)
	}

	if err := s.store.CreateOwnerProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyCompleted
		}
		return err
	}

	s.invalidateProfile(sub.Account.Username)
	return nil
}

func (s *ServerContext) CompleteArtistProfile(ctx context.Context, sub Submission) error {
	if err := s.completionGate(ctx, sub.Account, types.RoleArtist); err != nil {
		return err
	}

	verr := &ValidationError{}
	f := decodeArtistForm(sub.Form, verr)
	s.check(f, verr)
	if err := verr.orNil(); err != nil {
		return err
	}

	p := &types.ArtistProfile{AccountID: sub.Account.ID}
	f.apply(p)
	p.Availability = schedule.Parse(sub.Form, schedule.Weekdays, schedule.ArtistPrefix)
	if len(p.Availability) > 0 {
		p.AvailabilityText = schedule.Summary(p.Availability, schedule.Weekdays)
	}

	if err := s.store.CreateArtistProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyCompleted
		}
		return err
	}

	s.invalidateProfile(sub.Account.Username)
	return nil
}

func (s *ServerContext) profileComplete(ctx context.Context, acc *types.Account) (bool, error) {
	var err error
	switch acc.Role {
	case types.RoleOwner:
		_, err = s.store.OwnerProfile(ctx, acc.ID)
	case types.RoleArtist:
		_, err = s.store.ArtistProfile(ctx, acc.ID)
	default:
		return false, nil
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	}
	return false, err
}

/*****************************************************
 *                       EDIT                        *
 *****************************************************/

// roleProfile holds the profile matching the account role. The other
// pointer is always nil.
type roleProfile struct {
	owner  *types.OwnerProfile
	artist *types.ArtistProfile
}

// ensureProfile loads the role profile and creates an empty one when the
// account has none yet.
func (s *ServerContext) ensureProfile(ctx context.Context, acc *types.Account) (roleProfile, error) {
	switch acc.Role {
	case types.RoleOwner:
		p, err := s.store.OwnerProfile(ctx, acc.ID)
		if errors.Is(err, ErrNotFound) {
			p = &types.OwnerProfile{AccountID: acc.ID, Schedule: types.WeeklySchedule{}, AdditionalServices: []string{}}
			err = s.store.CreateOwnerProfile(ctx, p)
			if errors.Is(err, store.ErrDuplicate) {
				p, err = s.store.OwnerProfile(ctx, acc.ID)
			}
			if err == nil {
				s.invalidateProfile(acc.Username)
			}
		}
		if err != nil {
			return roleProfile{}, fmt.Errorf("ensure owner profile: %w", err)
		}
		return roleProfile{owner: p}, nil

	case types.RoleArtist:
		p, err := s.store.ArtistProfile(ctx, acc.ID)
		if errors.Is(err, ErrNotFound) {
			p = &types.ArtistProfile{AccountID: acc.ID, Availability: types.WeeklySchedule{}}
			err = s.store.CreateArtistProfile(ctx, p)
			if errors.Is(err, store.ErrDuplicate) {
				p, err = s.store.ArtistProfile(ctx, acc.ID)
			}
			if err == nil {
				s.invalidateProfile(acc.Username)
			}
		}
		if err != nil {
			return roleProfile{}, fmt.Errorf("ensure artist profile: %w", err)
		}
		return roleProfile{artist: p}, nil
	}

	return roleProfile{}, fmt.Errorf("unknown role %q", acc.Role)
}

// EditProfile applies one combined submission of account fields, role
// profile fields, an optional new avatar and any number of media files.
// Stored schedules and services are only replaced by non-empty input.
func (s *ServerContext) EditProfile(ctx context.Context, sub Submission) error {
	acc := sub.Account

	rp, err := s.ensureProfile(ctx, acc)
	if err != nil {
		return err
	}

	verr := &ValidationError{}

	af := decodeAccountForm(sub.Form)
	s.check(af, verr)

	var (
		of ownerForm
		rf artistForm
	)
	if rp.owner != nil {
		of = decodeOwnerForm(sub.Form, verr)
		s.check(of, verr)
	} else {
		rf = decodeArtistForm(sub.Form, verr)
		s.check(rf, verr)
	}

	mediaTypes := pairMediaTypes(len(sub.Files), sub.Form["media_type"], verr)

	var avatar []byte
	if sub.Avatar != nil && len(sub.Avatar.Data) > 0 {
		if avatar, err = prepareAvatar(sub.Avatar.Data); err != nil {
			verr.add("profile_image", "Subí una imagen válida (JPEG, PNG o GIF).")
		}
	}

	if af.Email != "" && !strings.EqualFold(af.Email, acc.Email) {
		if _, err := s.store.AccountByEmail(ctx, af.Email); err == nil {
			verr.add("email", "Ya existe una cuenta con este correo electrónico.")
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if err := verr.orNil(); err != nil {
		return err
	}

	updated := *acc
	af.apply(&updated)

	oldAvatar := acc.ProfileImage
	if avatar != nil {
		ref, err := s.files.Save(ctx, storage.FolderProfiles, storage.RandomName("avatar.jpg"), bytes.NewReader(avatar))
		if err != nil {
			return fmt.Errorf("save avatar: %w", err)
		}
		updated.ProfileImage = ref
	}

	if err := s.store.UpdateAccount(ctx, &updated); err != nil {
		if updated.ProfileImage != oldAvatar {
			s.removeFile(ctx, updated.ProfileImage)
		}
		if errors.Is(err, store.ErrDuplicate) {
			return fieldError("email", "Ya existe una cuenta con este correo electrónico.")
		}
		return err
	}

	if rp.owner != nil {
		err = s.updateOwner(ctx, rp.owner, of, sub.Form)
	} else {
		err = s.updateArtist(ctx, rp.artist, rf, sub.Form)
	}
	if err != nil {
		s.revertAccount(ctx, acc, updated.ProfileImage)
		return err
	}

	// The previous avatar is removed only after both rows are updated.
	if updated.ProfileImage != oldAvatar && oldAvatar != "" {
		s.removeFile(ctx, oldAvatar)
	}
	*acc = updated

	for i, file := range sub.Files {
		if err := s.addMedia(ctx, acc, file, mediaTypes[i]); err != nil {
			return err
		}
	}

	s.invalidateProfile(acc.Username)
	return nil
}

// revertAccount restores the stored account row to prev after a failed
// profile update and drops an avatar uploaded by the same request.
func (s *ServerContext) revertAccount(ctx context.Context, prev *types.Account, uploaded string) {
	restore := *prev
	if err := s.store.UpdateAccount(ctx, &restore); err != nil {
		s.logger.Error("revert account failed", zap.String("username", prev.Username), zap.Error(err))
		return
	}
	if uploaded != prev.ProfileImage {
		s.removeFile(ctx, uploaded)
	}
}

func (s *ServerContext) updateOwner(ctx context.Context, p *types.OwnerProfile, f ownerForm, form url.Values) error {
	keepText := p.ScheduleText
	f.apply(p)
	if _, posted := form["schedule_text"]; !posted {
		p.ScheduleText = keepText
	}

	if services := formList(form, "services[]"); len(services) > 0 {
		p.AdditionalServices = services
	}

	if posted := schedule.Parse(form, schedule.Weekdays, schedule.OwnerPrefix); len(posted) > 0 {
		p.Schedule = posted
		p.ScheduleText = schedule.Summary(posted, schedule.Weekdays)
	}

	return s.store.UpdateOwnerProfile(ctx, p)
}

func (s *ServerContext) updateArtist(ctx context.Context, p *types.ArtistProfile, f artistForm, form url.Values) error {
	keepText := p.AvailabilityText
	f.apply(p)
	if _, posted := form["availability_text"]; !posted {
		p.AvailabilityText = keepText
	}

	if posted := schedule.Parse(form, schedule.Weekdays, schedule.ArtistPrefix); len(posted) > 0 {
		p.Availability = posted
		p.AvailabilityText = schedule.Summary(posted, schedule.Weekdays)
	}

	return s.store.UpdateArtistProfile(ctx, p)
}

// pairMediaTypes matches declared types to files by position. Files without
// a declared type are images.
func pairMediaTypes(files int, declared []string, verr *ValidationError) []types.MediaType {
	out := make([]types.MediaType, files)
	for i := range out {
		t := types.MediaImage
		if i < len(declared) && declared[i] != "" {
			t = types.MediaType(declared[i])
		}
		if !t.Valid() {
			verr.add("media_type", "Tipo de archivo no válido.")
		}
		out[i] = t
	}
	return out
}

func (s *ServerContext) addMedia(ctx context.Context, acc *types.Account, file Upload, mediaType types.MediaType) error {
	ref, err := s.files.Save(ctx, storage.FolderMedia, storage.RandomName(file.Filename), bytes.NewReader(file.Data))
	if err != nil {
		return fmt.Errorf("save media: %w", err)
	}

	m := &types.MediaAttachment{
		AccountID:   acc.ID,
		File:        ref,
		MediaType:   mediaType,
		ContentType: http.DetectContentType(file.Data),
	}
	if err := s.store.AddMedia(ctx, m); err != nil {
		s.removeFile(ctx, ref)
		return err
	}
	return nil
}

func (s *ServerContext) removeFile(ctx context.Context, ref string) {
	if err := s.files.Delete(ctx, ref); err != nil {
		s.logger.Warn("failed to remove stored file", zap.String("ref", ref), zap.Error(err))
	}
}

/*****************************************************
 *                      MEDIA                        *
 *****************************************************/

// DeleteMedia removes an attachment of acc together with its stored file.
// Attachments of other accounts are reported as not found.
func (s *ServerContext) DeleteMedia(ctx context.Context, acc *types.Account, mediaID uuid.UUID) error {
	err := s.store.DeleteMedia(ctx, acc.ID, mediaID, func(m types.MediaAttachment) error {
		return s.files.Delete(ctx, m.File)
	})
	if err != nil {
		return err
	}

	s.invalidateProfile(acc.Username)
	return nil
}

/*****************************************************
 *                       VIEW                        *
 *****************************************************/
func (s *ServerContext) ViewProfile(ctx context.Context, acc *types.Account) (*types.ProfileView, error) {
	v, err := s.buildView(ctx, acc)
	if err != nil {
		return nil, err
	}
	v.Editable = true
	return v, nil
}

// PublicProfile assembles the profile of username for anonymous visitors.
// Views are cached until the account changes.
func (s *ServerContext) PublicProfile(ctx context.Context, username string) (*types.ProfileView, error) {
	key := profileCacheKey(username)
	if cached, ok := s.cache.Get(key); ok {
		if v, ok := cached.(*types.ProfileView); ok {
			cp := *v
			return &cp, nil
		}
	}

	acc, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	v, err := s.buildView(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, v, cache.DefaultExpiration)
	cp := *v
	return &cp, nil
}

func (s *ServerContext) buildView(ctx context.Context, acc *types.Account) (*types.ProfileView, error) {
	media, err := s.store.ListMedia(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	for i := range media {
		media[i].URL = s.files.URL(media[i].File)
	}

	v := &types.ProfileView{
		Account:         *acc,
		ProfileImageURL: s.files.URL(acc.ProfileImage),
		Media:           media,
		Services:        []string{},
		Schedule:        schedule.Normalize(nil, schedule.Weekdays),
	}
	v.Account.PasswordHash = nil

	switch acc.Role {
	case types.RoleOwner:
		p, err := s.store.OwnerProfile(ctx, acc.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if p != nil {
			v.Owner = p
			if p.AdditionalServices != nil {
				v.Services = p.AdditionalServices
			}
			v.Schedule = schedule.Normalize(p.Schedule, schedule.Weekdays)
		}

	case types.RoleArtist:
		p, err := s.store.ArtistProfile(ctx, acc.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if p != nil {
			v.Artist = p
			v.Social = &types.SocialLinks{
				Instagram: p.Instagram,
				TikTok:    p.TikTok,
				Facebook:  p.Facebook,
				Other:     p.OtherSocials,
			}
			v.Schedule = schedule.Normalize(p.Availability, schedule.Weekdays)
		}
	}

	return v, nil
}

func profileCacheKey(username string) string {
	return "profile:" + username
}

func (s *ServerContext) invalidateProfile(username string) {
	s.cache.Delete(profileCacheKey(username))
}
