package pages

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gopher93185789/redshow/pkg/schedule"
	"github.com/gopher93185789/redshow/pkg/types"
)

// CompleteData backs both completion forms.
type CompleteData struct {
	Form     Form
	Schedule []types.DaySlot
	Services []string
}

func CompleteOwner(d CompleteData) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="container py-4"><h1>Completá el perfil de tu establecimiento</h1>`)
		h.formMessage(d.Form)
		h.raw(`<form method="post" action="/accounts/complete-owner-profile/">`)
		h.fields(OwnerFields, d.Form)
		h.servicesFields(d.Services)
		h.scheduleFields("Horarios", schedule.OwnerPrefix, d.Schedule)
		h.raw(`<button class="btn btn-primary" type="submit">Guardar</button></form></section>`)
	})
}

func CompleteArtist(d CompleteData) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="container py-4"><h1>Completá tu perfil de artista</h1>`)
		h.formMessage(d.Form)
		h.raw(`<form method="post" action="/accounts/complete-artist-profile/">`)
		h.fields(ArtistFields, d.Form)
		h.scheduleFields("Disponibilidad", schedule.ArtistPrefix, d.Schedule)
		h.raw(`<button class="btn btn-primary" type="submit">Guardar</button></form></section>`)
	})
}

type EditData struct {
	Role            types.Role
	Form            Form
	Schedule        []types.DaySlot
	Services        []string
	Media           []types.MediaAttachment
	ProfileImageURL string
}

func EditProfile(d EditData) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="container py-4"><h1>Editar perfil</h1>`)
		h.formMessage(d.Form)

		if d.ProfileImageURL != "" {
			h.raw(`<img class="rounded mb-3" width="128" src="`, esc(d.ProfileImageURL), `" alt="">`)
		}

		h.raw(`<form method="post" action="/accounts/perfil/editar/" enctype="multipart/form-data">`)
		h.raw(`<h2 class="h4">Datos personales</h2>`)
		h.fields(AccountFields, d.Form)

		if d.Role == types.RoleOwner {
			h.raw(`<h2 class="h4">Establecimiento</h2>`)
			h.fields(OwnerFields, d.Form)
			h.fields([]Field{{Name: "schedule_text", Label: "Horarios (texto)", Type: "textarea"}}, d.Form)
			h.servicesFields(d.Services)
			h.scheduleFields("Horarios", schedule.OwnerPrefix, d.Schedule)
		} else {
			h.raw(`<h2 class="h4">Perfil artístico</h2>`)
			h.fields(ArtistFields, d.Form)
			h.fields([]Field{{Name: "availability_text", Label: "Disponibilidad (texto)", Type: "textarea"}}, d.Form)
			h.scheduleFields("Disponibilidad", schedule.ArtistPrefix, d.Schedule)
		}

		h.raw(`<h2 class="h4">Agregar archivos</h2><div class="mb-3">`)
		h.raw(`<input class="form-control mb-1" type="file" name="file" multiple>`)
		h.raw(`<select class="form-select" name="media_type">`)
		for _, o := range mediaTypeOptions {
			h.raw(`<option value="`, esc(o.Value), `">`, esc(o.Label), `</option>`)
		}
		h.raw(`</select>`)
		if msg, ok := d.Form.Errors["media_type"]; ok {
			h.raw(`<div class="invalid-feedback d-block">`, esc(msg), `</div>`)
		}
		h.raw(`</div>`)
		h.raw(`<button class="btn btn-primary" type="submit">Guardar cambios</button></form>`)

		if len(d.Media) > 0 {
			h.raw(`<h2 class="h4 mt-4">Mis archivos</h2><div class="row">`)
			for _, m := range d.Media {
				h.raw(`<div class="col-md-3 mb-3">`)
				h.media(m)
				h.raw(`<form method="post" action="/accounts/media/`, m.ID.String(), `/delete/">`)
				h.raw(`<button class="btn btn-sm btn-outline-danger" type="submit">Eliminar</button></form></div>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)
	})
}

// Profile renders a ProfileView. Editable views link to the edit page.
func Profile(v types.ProfileView, flash Flash) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		a := v.Account
		h.raw(`<section class="container py-4">`)
		h.render(ctx, flashMessages(flash))

		h.raw(`<div class="d-flex align-items-center mb-3">`)
		if v.ProfileImageURL != "" {
			h.raw(`<img class="rounded-circle me-3" width="96" height="96" src="`, esc(v.ProfileImageURL), `" alt="">`)
		}
		h.raw(`<div><h1>`, esc(displayName(v)), `</h1><p class="text-muted">@`, esc(a.Username), ` · `, esc(a.Role.Label()), `</p></div></div>`)

		if v.Editable {
			h.raw(`<a class="btn btn-outline-secondary mb-3" href="/accounts/perfil/editar/">Editar perfil</a>`)
		}

		switch {
		case v.Owner != nil:
			h.ownerDetails(v)
		case v.Artist != nil:
			h.artistDetails(v)
		default:
			h.raw(`<p class="text-muted">Este perfil todavía no está completo.</p>`)
		}

		if v.Complete() {
			title := "Disponibilidad"
			if v.Owner != nil {
				title = "Horarios"
			}
			h.raw(`<h2 class="h4">`, title, `</h2><table class="table table-sm"><tbody>`)
			for _, slot := range v.Schedule {
				h.raw(`<tr><th>`, esc(slot.Day), `</th><td>`)
				if slot.Enabled {
					h.raw(esc(slot.From), ` a `, esc(slot.To))
				} else {
					h.raw(`<span class="text-muted">-</span>`)
				}
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		if len(v.Media) > 0 {
			h.raw(`<h2 class="h4">Galería</h2><div class="row">`)
			for _, m := range v.Media {
				h.raw(`<div class="col-md-3 mb-3">`)
				h.media(m)
				h.raw(`</div>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)
	})
}

func displayName(v types.ProfileView) string {
	switch {
	case v.Owner != nil && v.Owner.BusinessName != "":
		return v.Owner.BusinessName
	case v.Artist != nil && v.Artist.StageName != "":
		return v.Artist.StageName
	}
	return v.Account.FullName()
}

func (h *writer) ownerDetails(v types.ProfileView) {
	p := v.Owner
	h.raw(`<dl class="row">`)
	h.detail("Tipo de Negocio", p.BusinessType)
	h.detail("Dirección", p.Address)
	h.detail("Ciudad", p.City)
	h.detail("Provincia", p.Province)
	if p.Capacity > 0 {
		h.detail("Capacidad", strconv.Itoa(p.Capacity))
	}
	h.detail("Descripción", p.Description)
	h.detail("Contacto alternativo", p.ContactAlt)
	h.detail("Políticas de contratación", p.HiringPolicies)
	h.raw(`</dl>`)

	if len(v.Services) > 0 {
		h.raw(`<h2 class="h4">Servicios adicionales</h2><ul>`)
		for _, svc := range v.Services {
			h.raw(`<li>`, esc(svc), `</li>`)
		}
		h.raw(`</ul>`)
	}
}

func (h *writer) artistDetails(v types.ProfileView) {
	p := v.Artist
	h.raw(`<dl class="row">`)
	h.detail("Categoría", p.Category.Label())
	if p.ExperienceYears > 0 {
		h.detail("Años de Experiencia", strconv.Itoa(p.ExperienceYears))
	}
	h.detail("Biografía", p.Bio)
	h.detail("Ubicación", p.Location)
	h.detail("Barrio", p.Neighborhood)
	h.raw(`</dl>`)

	if p.PortfolioURL != "" {
		h.raw(`<p><a href="`, esc(p.PortfolioURL), `" rel="nofollow noopener" target="_blank">Portfolio</a></p>`)
	}

	if s := v.Social; s != nil {
		h.raw(`<ul class="list-inline">`)
		for _, link := range []struct{ label, value string }{
			{"Instagram", s.Instagram},
			{"TikTok", s.TikTok},
			{"Facebook", s.Facebook},
			{"Otras", s.Other},
		} {
			if link.value != "" {
				h.raw(`<li class="list-inline-item">`, link.label, `: `, esc(link.value), `</li>`)
			}
		}
		h.raw(`</ul>`)
	}
}

func (h *writer) detail(label, value string) {
	if value == "" {
		return
	}
	h.raw(`<dt class="col-sm-3">`, esc(label), `</dt><dd class="col-sm-9">`, esc(value), `</dd>`)
}

func (h *writer) media(m types.MediaAttachment) {
	src := esc(m.URL)
	switch m.MediaType {
	case types.MediaImage:
		h.raw(`<img class="img-fluid rounded" src="`, src, `" alt="">`)
	case types.MediaVideo:
		h.raw(`<video class="w-100" controls src="`, src, `"></video>`)
	default:
		h.raw(`<a href="`, src, `" target="_blank">Ver archivo</a>`)
	}
}
