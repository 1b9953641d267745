package pages

import (
	"github.com/gopher93185789/redshow/pkg/schedule"
	"github.com/gopher93185789/redshow/pkg/types"
)

type Option struct {
	Value string
	Label string
}

// Field describes one form control. Every form is a []Field rendered by
// fields.
type Field struct {
	Name        string
	Label       string
	Type        string // text, email, password, date, number, url, tel, textarea, select, radio, checkbox, file
	Placeholder string
	Required    bool
	Options     []Option
}

var roleOptions = []Option{
	{string(types.RoleOwner), types.RoleOwner.Label()},
	{string(types.RoleArtist), types.RoleArtist.Label()},
}

func categoryOptions() []Option {
	opts := make([]Option, 0, len(types.Categories))
	for _, c := range types.Categories {
		opts = append(opts, Option{string(c), c.Label()})
	}
	return opts
}

var mediaTypeOptions = []Option{
	{string(types.MediaImage), "Imagen"},
	{string(types.MediaVideo), "Video"},
	{string(types.MediaOther), "Otro"},
}

var RegisterFields = []Field{
	{Name: "username", Label: "Nombre de Usuario", Type: "text", Required: true},
	{Name: "email", Label: "Correo Electrónico", Type: "email", Required: true},
	{Name: "confirm_email", Label: "Confirmar Correo Electrónico", Type: "email", Required: true},
	{Name: "first_name", Label: "Nombre", Type: "text", Required: true},
	{Name: "last_name", Label: "Apellido", Type: "text", Required: true},
	{Name: "birth_date", Label: "Fecha de Nacimiento", Type: "date", Required: true},
	{Name: "phone", Label: "Celular", Type: "tel", Required: true},
	{Name: "dni", Label: "DNI", Type: "text"},
	{Name: "user_type", Label: "¿Cómo te quieres registrar?", Type: "radio", Required: true, Options: roleOptions},
	{Name: "password1", Label: "Contraseña", Type: "password", Required: true},
	{Name: "password2", Label: "Confirmar Contraseña", Type: "password", Required: true},
	{Name: "accept_terms", Label: "Acepto las bases y condiciones", Type: "checkbox", Required: true},
}

var LoginFields = []Field{
	{Name: "username", Label: "Usuario o Email", Type: "text", Placeholder: "Usuario o Email", Required: true},
	{Name: "password", Label: "Contraseña", Type: "password", Placeholder: "Contraseña", Required: true},
}

var AccountFields = []Field{
	{Name: "first_name", Label: "Nombre", Type: "text", Required: true},
	{Name: "last_name", Label: "Apellido", Type: "text", Required: true},
	{Name: "email", Label: "Correo Electrónico", Type: "email", Required: true},
	{Name: "phone", Label: "Teléfono", Type: "tel"},
	{Name: "birth_date", Label: "Fecha de Nacimiento", Type: "date"},
	{Name: "dni", Label: "DNI", Type: "text"},
	{Name: "profile_image", Label: "Imagen de Perfil", Type: "file"},
}

var OwnerFields = []Field{
	{Name: "business_name", Label: "Nombre del Negocio", Type: "text", Required: true},
	{Name: "business_type", Label: "Tipo de Negocio", Type: "text", Required: true},
	{Name: "address", Label: "Dirección", Type: "textarea", Required: true},
	{Name: "city", Label: "Ciudad", Type: "text"},
	{Name: "province", Label: "Provincia", Type: "text"},
	{Name: "capacity", Label: "Capacidad", Type: "number", Required: true},
	{Name: "description", Label: "Descripción", Type: "textarea"},
	{Name: "contact_alt", Label: "Contacto alternativo", Type: "text"},
	{Name: "hiring_policies", Label: "Políticas de contratación", Type: "textarea"},
	{Name: "cuit_cuil", Label: "CUIT/CUIL", Type: "text", Placeholder: "XX-XXXXXXXX-X"},
}

var ArtistFields = []Field{
	{Name: "stage_name", Label: "Nombre Artístico", Type: "text", Required: true},
	{Name: "category", Label: "Categoría", Type: "select", Required: true, Options: categoryOptions()},
	{Name: "experience_years", Label: "Años de Experiencia", Type: "number"},
	{Name: "portfolio_url", Label: "URL del Portfolio", Type: "url"},
	{Name: "bio", Label: "Biografía", Type: "textarea", Required: true},
	{Name: "instagram", Label: "Instagram", Type: "text"},
	{Name: "tiktok", Label: "TikTok", Type: "text"},
	{Name: "facebook", Label: "Facebook", Type: "text"},
	{Name: "other_socials", Label: "Otras redes", Type: "text"},
	{Name: "location", Label: "Ubicación", Type: "text"},
	{Name: "neighborhood", Label: "Barrio", Type: "text"},
}

// fields renders every field with its current value and error message.
func (h *writer) fields(list []Field, f Form) {
	for _, fd := range list {
		h.field(fd, f)
	}
}

func (h *writer) field(fd Field, f Form) {
	name, val := esc(fd.Name), f.value(fd.Name)
	req := ""
	if fd.Required {
		req = " required"
	}

	h.raw(`<div class="mb-3">`)
	switch fd.Type {
	case "checkbox":
		checked := ""
		if val != "" {
			checked = " checked"
		}
		h.raw(`<div class="form-check"><input class="form-check-input" type="checkbox" id="id_`, name, `" name="`, name, `" value="on"`, checked, req, `>`)
		h.raw(`<label class="form-check-label" for="id_`, name, `">`, esc(fd.Label), `</label></div>`)

	case "radio":
		h.raw(`<label class="form-label">`, esc(fd.Label), `</label>`)
		for i, o := range fd.Options {
			checked := ""
			if val == o.Value {
				checked = " checked"
			}
			h.rawf(`<div class="form-check"><input class="form-check-input" type="radio" id="id_%s_%d" name="%s" value="%s"%s%s>`, name, i, name, esc(o.Value), checked, req)
			h.rawf(`<label class="form-check-label" for="id_%s_%d">%s</label></div>`, name, i, esc(o.Label))
		}

	case "select":
		h.raw(`<label class="form-label" for="id_`, name, `">`, esc(fd.Label), `</label>`)
		h.raw(`<select class="form-select" id="id_`, name, `" name="`, name, `"`, req, `><option value="">---------</option>`)
		for _, o := range fd.Options {
			sel := ""
			if val == o.Value {
				sel = " selected"
			}
			h.raw(`<option value="`, esc(o.Value), `"`, sel, `>`, esc(o.Label), `</option>`)
		}
		h.raw(`</select>`)

	case "textarea":
		h.raw(`<label class="form-label" for="id_`, name, `">`, esc(fd.Label), `</label>`)
		h.raw(`<textarea class="form-control" id="id_`, name, `" name="`, name, `" rows="3"`, req, `>`, esc(val), `</textarea>`)

	case "file":
		h.raw(`<label class="form-label" for="id_`, name, `">`, esc(fd.Label), `</label>`)
		h.raw(`<input class="form-control" type="file" id="id_`, name, `" name="`, name, `" accept="image/*">`)

	default:
		h.raw(`<label class="form-label" for="id_`, name, `">`, esc(fd.Label), `</label>`)
		if fd.Type == "password" {
			val = ""
		}
		h.raw(`<input class="form-control" type="`, esc(fd.Type), `" id="id_`, name, `" name="`, name, `" value="`, esc(val), `" placeholder="`, esc(fd.Placeholder), `"`, req, `>`)
	}

	if msg, ok := f.Errors[fd.Name]; ok {
		h.raw(`<div class="invalid-feedback d-block">`, esc(msg), `</div>`)
	}
	h.raw(`</div>`)
}

// scheduleFields renders the weekly grid: one checkbox named
// "<prefix>_<day>" and a from/to pair per day.
func (h *writer) scheduleFields(title, prefix string, slots []types.DaySlot) {
	h.raw(`<fieldset class="mb-3"><legend>`, esc(title), `</legend>`)
	for _, slot := range slots {
		day := esc(slot.Day)
		checked := ""
		if slot.Enabled {
			checked = " checked"
		}
		h.raw(`<div class="row g-2 align-items-center mb-1">`)
		h.raw(`<div class="col-4"><div class="form-check"><input class="form-check-input" type="checkbox" name="`,
			esc(schedule.EnabledField(prefix, slot.Day)), `" value="on"`, checked, `><label class="form-check-label">`, day, `</label></div></div>`)
		h.raw(`<div class="col-4"><input class="form-control" type="time" name="`, esc(schedule.FromField(slot.Day)), `" value="`, esc(slot.From), `"></div>`)
		h.raw(`<div class="col-4"><input class="form-control" type="time" name="`, esc(schedule.ToField(slot.Day)), `" value="`, esc(slot.To), `"></div>`)
		h.raw(`</div>`)
	}
	h.raw(`</fieldset>`)
}

func (h *writer) servicesFields(services []string) {
	h.raw(`<fieldset class="mb-3"><legend>Servicios adicionales</legend>`)
	for _, svc := range append(append([]string(nil), services...), "") {
		h.raw(`<input class="form-control mb-1" type="text" name="services[]" value="`, esc(svc), `">`)
	}
	h.raw(`</fieldset>`)
}
