package pages

import (
	"context"

	"github.com/a-h/templ"
)

func Register(f Form) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="container py-4"><h1>Crear cuenta</h1>`)
		h.formMessage(f)
		h.raw(`<form method="post" action="/accounts/register/" novalidate>`)
		h.fields(RegisterFields, f)
		h.raw(`<button class="btn btn-primary" type="submit">Registrarme</button></form>`)
		h.raw(`<p class="mt-3">¿Ya tenés cuenta? <a href="/accounts/login/">Ingresá</a></p></section>`)
	})
}

func Login(f Form, next string) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="container py-4"><h1>Iniciar sesión</h1>`)
		h.formMessage(f)
		h.raw(`<form method="post" action="/accounts/login/">`)
		if next != "" {
			h.raw(`<input type="hidden" name="next" value="`, esc(next), `">`)
		}
		h.fields(LoginFields, f)
		h.raw(`<button class="btn btn-primary" type="submit">Ingresar</button></form>`)
		h.raw(`<p class="mt-3">¿No tenés cuenta? <a href="/accounts/register/">Registrate</a></p></section>`)
	})
}
