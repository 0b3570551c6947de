package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudevolvers/go-contentstore/internal/locale"
	"github.com/cloudevolvers/go-contentstore/internal/settings"
)

func (api *API) mountSettings(r chi.Router) {
	r.Get("/", api.handleSettingsGet)
	r.Put("/", api.handleSettingsPut)
	r.Post("/reset", api.handleSettingsReset)
}

func (api *API) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	language := locale.FromRequest(r, api.defaultLanguage, api.languages...)
	homepage, err := api.settings.Get(r.Context(), language)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"settings": homepage,
	})
}

func (api *API) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var input settings.Homepage
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest("invalid JSON payload"))
		return
	}
	saved, err := api.settings.Put(r.Context(), &input)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"settings": saved,
	})
}

func (api *API) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	saved, err := api.settings.Reset(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"settings": saved,
	})
}
