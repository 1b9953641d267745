package internal

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gopher93185789/redshow/pkg/types"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	cuitPattern     = regexp.MustCompile(`^\d{2}-\d{8}-\d{1}$`)
	usernamePattern = regexp.MustCompile(`^[\w.+-]+$`)
)

const dateLayout = "2006-01-02"

func newValidator() *validator.Validate {
	v := validator.New()

	// report errors under the html field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cuit", func(fl validator.FieldLevel) bool {
		return cuitPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// check validates v and adds every failure to verr.
func (s *ServerContext) check(v any, verr *ValidationError) {
	err := s.validate.Struct(v)
	if err == nil {
		return
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		verr.Form = "Los datos enviados no son válidos."
		return
	}

	for _, fe := range errs {
		verr.add(fe.Field(), fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "accept_terms" {
			return "Tenés que aceptar las bases y condiciones."
		}
		return "Este campo es obligatorio."
	case "email":
		return "Ingresá un correo electrónico válido."
	case "eqfield":
		if fe.Field() == "confirm_email" {
			return "Los correos electrónicos no coinciden."
		}
		return "Las contraseñas no coinciden."
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres.", fe.Param())
	case "max":
		return fmt.Sprintf("No puede superar los %s caracteres.", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor a %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s.", fe.Param())
	case "oneof":
		return "Seleccioná una opción válida."
	case "datetime":
		return "Ingresá una fecha válida."
	case "url":
		return "Ingresá una URL válida."
	case "phone":
		return "Formato de teléfono inválido."
	case "cuit":
		return "Formato CUIT/CUIL: XX-XXXXXXXX-X"
	case "username":
		return "Sólo letras, números y ./+/-/_"
	}
	return "Valor inválido."
}

func formValue(form url.Values, key string) string {
	return strings.TrimSpace(form.Get(key))
}

// formInt parses an optional integer field. Empty input is zero.
func formInt(form url.Values, key string, verr *ValidationError) int {
	v := formValue(form, key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		verr.add(key, "Ingresá un número entero.")
		return 0
	}
	return n
}

func formBool(form url.Values, key string) bool {
	switch strings.ToLower(formValue(form, key)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

// formList returns the non-empty values of a repeated field in order.
func formList(form url.Values, key string) []string {
	out := []string{}
	for _, v := range form[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

/*****************************************************
 *                    ACCOUNT                        *
 *****************************************************/
type registerForm struct {
	Username     string `form:"username" validate:"required,max=150,username"`
	Email        string `form:"email" validate:"required,email,max=254"`
	ConfirmEmail string `form:"confirm_email" validate:"required,eqfield=Email"`
	FirstName    string `form:"first_name" validate:"required,max=30"`
	LastName     string `form:"last_name" validate:"required,max=30"`
	BirthDate    string `form:"birth_date" validate:"required,datetime=2006-01-02"`
	Phone        string `form:"phone" validate:"required,max=20,phone"`
	DNI          string `form:"dni" validate:"omitempty,max=15"`
	AcceptTerms  bool   `form:"accept_terms" validate:"required"`
	Role         string `form:"user_type" validate:"required,oneof=owner artist"`
	Password     string `form:"password1" validate:"required,min=8"`
	Password2    string `form:"password2" validate:"required,eqfield=Password"`
}

func decodeRegisterForm(form url.Values) registerForm {
	return registerForm{
		Username:     formValue(form, "username"),
		Email:        formValue(form, "email"),
		ConfirmEmail: formValue(form, "confirm_email"),
		FirstName:    formValue(form, "first_name"),
		LastName:     formValue(form, "last_name"),
		BirthDate:    formValue(form, "birth_date"),
		Phone:        formValue(form, "phone"),
		DNI:          formValue(form, "dni"),
		AcceptTerms:  formBool(form, "accept_terms"),
		Role:         formValue(form, "user_type"),
		Password:     form.Get("password1"),
		Password2:    form.Get("password2"),
	}
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=254"`
	Password string `form:"password" validate:"required"`
}

type accountForm struct {
	FirstName string `form:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name" validate:"required,max=30"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Phone     string `form:"phone" validate:"omitempty,max=20,phone"`
	BirthDate string `form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	DNI       string `form:"dni" validate:"omitempty,max=15"`
}

func decodeAccountForm(form url.Values) accountForm {
	return accountForm{
		FirstName: formValue(form, "first_name"),
		LastName:  formValue(form, "last_name"),
		Email:     formValue(form, "email"),
		Phone:     formValue(form, "phone"),
		BirthDate: formValue(form, "birth_date"),
		DNI:       formValue(form, "dni"),
	}
}

func (f accountForm) apply(a *types.Account) {
	a.FirstName = f.FirstName
	a.LastName = f.LastName
	a.Email = f.Email
	a.Phone = f.Phone
	a.BirthDate = parseDate(f.BirthDate)
	a.DNI = f.DNI
}

func accountValues(a *types.Account) url.Values {
	v := url.Values{}
	v.Set("first_name", a.FirstName)
	v.Set("last_name", a.LastName)
	v.Set("email", a.Email)
	v.Set("phone", a.Phone)
	v.Set("dni", a.DNI)
	if a.BirthDate != nil {
		v.Set("birth_date", a.BirthDate.Format(dateLayout))
	}
	return v
}

/*****************************************************
 *                     OWNER                         *
 *****************************************************/
type ownerForm struct {
	BusinessName   string `form:"business_name" validate:"required,max=200"`
	BusinessType   string `form:"business_type" validate:"required,max=100"`
	Address        string `form:"address" validate:"required"`
	City           string `form:"city" validate:"max=100"`
	Province       string `form:"province" validate:"max=100"`
	Capacity       int    `form:"capacity" validate:"gt=0"`
	Description    string `form:"description"`
	ContactAlt     string `form:"contact_alt" validate:"max=200"`
	ScheduleText   string `form:"schedule_text"`
	HiringPolicies string `form:"hiring_policies"`
	CUIT           string `form:"cuit_cuil" validate:"omitempty,max=13,cuit"`
}

func decodeOwnerForm(form url.Values, verr *ValidationError) ownerForm {
	return ownerForm{
		BusinessName:   formValue(form, "business_name"),
		BusinessType:   formValue(form, "business_type"),
		Address:        formValue(form, "address"),
		City:           formValue(form, "city"),
		Province:       formValue(form, "province"),
		Capacity:       formInt(form, "capacity", verr),
		Description:    formValue(form, "description"),
		ContactAlt:     formValue(form, "contact_alt"),
		ScheduleText:   formValue(form, "schedule_text"),
		HiringPolicies: formValue(form, "hiring_policies"),
		CUIT:           formValue(form, "cuit_cuil"),
	}
}

func (f ownerForm) apply(p *types.OwnerProfile) {
	p.BusinessName = f.BusinessName
	p.BusinessType = f.BusinessType
	p.Address = f.Address
	p.City = f.City
	p.Province = f.Province
	p.Capacity = f.Capacity
	p.Description = f.Description
	p.ContactAlt = f.ContactAlt
	p.ScheduleText = f.ScheduleText
	p.HiringPolicies = f.HiringPolicies
	p.CUIT = f.CUIT
}

func ownerValues(p *types.OwnerProfile) url.Values {
	v := url.Values{}
	v.Set("business_name", p.BusinessName)
	v.Set("business_type", p.BusinessType)
	v.Set("address", p.Address)
	v.Set("city", p.City)
	v.Set("province", p.Province)
	if p.Capacity > 0 {
		v.Set("capacity", strconv.Itoa(p.Capacity))
	}
	v.Set("description", p.Description)
	v.Set("contact_alt", p.ContactAlt)
	v.Set("schedule_text", p.ScheduleText)
	v.Set("hiring_policies", p.HiringPolicies)
	v.Set("cuit_cuil", p.CUIT)
	v["services[]"] = append([]string(nil), p.AdditionalServices...)
	return v
}

/*****************************************************
 *                     ARTIST                        *
 *****************************************************/
type artistForm struct {
	StageName        string `form:"stage_name" validate:"required,max=100"`
	Category         string `form:"category" validate:"required,oneof=musician comedian dancer dj magician speaker other"`
	ExperienceYears  int    `form:"experience_years" validate:"gte=0"`
	PortfolioURL     string `form:"portfolio_url" validate:"omitempty,url,max=200"`
	Bio              string `form:"bio" validate:"required"`
	Instagram        string `form:"instagram" validate:"max=100"`
	TikTok           string `form:"tiktok" validate:"max=100"`
	Facebook         string `form:"facebook" validate:"max=100"`
	OtherSocials     string `form:"other_socials" validate:"max=200"`
	Location         string `form:"location" validate:"max=100"`
	Neighborhood     string `form:"neighborhood" validate:"max=100"`
	AvailabilityText string `form:"availability_text"`
}

func decodeArtistForm(form url.Values, verr *ValidationError) artistForm {
	return artistForm{
		StageName:        formValue(form, "stage_name"),
		Category:         formValue(form, "category"),
		ExperienceYears:  formInt(form, "experience_years", verr),
		PortfolioURL:     formValue(form, "portfolio_url"),
		Bio:              formValue(form, "bio"),
		Instagram:        formValue(form, "instagram"),
		TikTok:           formValue(form, "tiktok"),
		Facebook:         formValue(form, "facebook"),
		OtherSocials:     formValue(form, "other_socials"),
		Location:         formValue(form, "location"),
		Neighborhood:     formValue(form, "neighborhood"),
		AvailabilityText: formValue(form, "availability_text"),
	}
}

func (f artistForm) apply(p *types.ArtistProfile) {
	p.StageName = f.StageName
	p.Category = types.Category(f.Category)
	p.ExperienceYears = f.ExperienceYears
	p.PortfolioURL = f.PortfolioURL
	p.Bio = f.Bio
	p.Instagram = f.Instagram
	p.TikTok = f.TikTok
	p.Facebook = f.Facebook
	p.OtherSocials = f.OtherSocials
	p.Location = f.Location
	p.Neighborhood = f.Neighborhood
	p.AvailabilityText = f.AvailabilityText
}

func artistValues(p *types.ArtistProfile) url.Values {
	v := url.Values{}
	v.Set("stage_name", p.StageName)
	v.Set("category", string(p.Category))
	v.Set("experience_years", strconv.Itoa(p.ExperienceYears))
	v.Set("portfolio_url", p.PortfolioURL)
	v.Set("bio", p.Bio)
	v.Set("instagram", p.Instagram)
	v.Set("tiktok", p.TikTok)
	v.Set("facebook", p.Facebook)
	v.Set("other_socials", p.OtherSocials)
	v.Set("location", p.Location)
	v.Set("neighborhood", p.Neighborhood)
	v.Set("availability_text", p.AvailabilityText)
	return v
}

func mergeValues(dst url.Values, srcs ...url.Values) url.Values {
	if dst == nil {
		dst = url.Values{}
	}
	for _, src := range srcs {
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}
