package httpapi

import (
	"net/http"

	"codecrafted.org/internal/catalog"
)

func (a *API) handleCreateInteraction(w http.ResponseWriter, r *http.Request) {
	var interaction catalog.Interaction
	if err := decodeJSON(w, r, &interaction); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := interaction.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "UserID and CourseID are required")
		return
	}

	if err := a.interactions.Create(r.Context(), &interaction); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, interaction)
}

func (a *API) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := a.interactions.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if interactions == nil {
		interactions = []*catalog.Interaction{}
	}
	writeJSON(w, http.StatusOK, interactions)
}
