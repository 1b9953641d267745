package types

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleArtist Role = "artist"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleArtist
}

// Label is the human readable name shown on forms and profiles.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Dueño de Establecimiento"
	case RoleArtist:
		return "Artista/Emprendedor"
	}
	return string(r)
}

type Category string

const (
	CategoryMusician Category = "musician"
	CategoryComedian Category = "comedian"
	CategoryDancer   Category = "dancer"
	CategoryDJ       Category = "dj"
	CategoryMagician Category = "magician"
	CategorySpeaker  Category = "speaker"
	CategoryOther    Category = "other"
)

var Categories = []Category{
	CategoryMusician,
	CategoryComedian,
	CategoryDancer,
	CategoryDJ,
	CategoryMagician,
	CategorySpeaker,
	CategoryOther,
}

func (c Category) Label() string {
	switch c {
	case CategoryMusician:
		return "Músico"
	case CategoryComedian:
		return "Comediante"
	case CategoryDancer:
		return "Bailarín"
	case CategoryDJ:
		return "DJ"
	case CategoryMagician:
		return "Mago"
	case CategorySpeaker:
		return "Conferencista"
	case CategoryOther:
		return "Otro"
	}
	return string(c)
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

func (m MediaType) Valid() bool {
	return m == MediaImage || m == MediaVideo || m == MediaOther
}

type Account struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash []byte     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Role         Role       `json:"role" db:"role"`
	Phone        string     `json:"phone" db:"phone"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	DNI          string     `json:"dni" db:"dni"`
	ProfileImage string     `json:"profile_image" db:"profile_image"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (a *Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// DayHours is the opening (or availability) window of a single weekday.
type DayHours struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WeeklySchedule maps a weekday label to its hours. Days that are closed
// or unavailable are simply absent.
type WeeklySchedule map[string]DayHours

// DaySlot is a WeeklySchedule entry prepared for rendering.
type DaySlot struct {
	Day     string
	From    string
	To      string
	Enabled bool
}

type OwnerProfile struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	AccountID          uuid.UUID      `json:"account_id" db:"account_id"`
	BusinessName       string         `json:"business_name" db:"business_name"`
	BusinessType       string         `json:"business_type" db:"business_type"`
	Address            string         `json:"address" db:"address"`
	City               string         `json:"city" db:"city"`
	Province           string         `json:"province" db:"province"`
	Capacity           int            `json:"capacity" db:"capacity"`
	Description        string         `json:"description" db:"description"`
	ContactAlt         string         `json:"contact_alt" db:"contact_alt"`
	ScheduleText       string         `json:"schedule_text" db:"schedule_text"`
	Schedule           WeeklySchedule `json:"schedule" db:"schedule"`
	AdditionalServices []string       `json:"additional_services" db:"additional_services"`
	HiringPolicies     string         `json:"hiring_policies" db:"hiring_policies"`
	CUIT               string         `json:"cuit_cuil" db:"cuit_cuil"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

type ArtistProfile struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	AccountID        uuid.UUID      `json:"account_id" db:"account_id"`
	StageName        string         `json:"stage_name" db:"stage_name"`
	Category         Category       `json:"category" db:"category"`
	ExperienceYears  int            `json:"experience_years" db:"experience_years"`
	PortfolioURL     string         `json:"portfolio_url" db:"portfolio_url"`
	Bio              string         `json:"bio" db:"bio"`
	Instagram        string         `json:"instagram" db:"instagram"`
	TikTok           string         `json:"tiktok" db:"tiktok"`
	Facebook         string         `json:"facebook" db:"facebook"`
	OtherSocials     string         `json:"other_socials" db:"other_socials"`
	Location         string         `json:"location" db:"location"`
	Neighborhood     string         `json:"neighborhood" db:"neighborhood"`
	Availability     WeeklySchedule `json:"availability" db:"availability"`
	AvailabilityText string         `json:"availability_text" db:"availability_text"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

type MediaAttachment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	AccountID   uuid.UUID `json:"account_id" db:"account_id"`
	File        string    `json:"file" db:"file"`
	URL         string    `json:"url" db:"-"`
	MediaType   MediaType `json:"media_type" db:"media_type"`
	ContentType string    `json:"content_type" db:"content_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type SocialLinks struct {
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	Facebook  string `json:"facebook"`
	Other     string `json:"other"`
}

// ProfileView is everything a profile page needs. Exactly one of Owner and
// Artist is set once the profile is complete; both are nil before that.
type ProfileView struct {
	Account         Account           `json:"account"`
	ProfileImageURL string            `json:"profile_image_url"`
	Owner           *OwnerProfile     `json:"owner,omitempty"`
	Artist          *ArtistProfile    `json:"artist,omitempty"`
	Media           []MediaAttachment `json:"media"`
	Services        []string          `json:"services,omitempty"`
	Social          *SocialLinks      `json:"social_links,omitempty"`
	Schedule        []DaySlot         `json:"schedule"`
	Editable        bool              `json:"-"`
}

func (v *ProfileView) Complete() bool {
	return v.Owner != nil || v.Artist != nil
}
