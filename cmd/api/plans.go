package main

import (
	"net/http"
)

// listPlansHandler godoc
//
//	@Summary		List plans
//	@Description	Returns every plan in the catalog.
//	@Tags			plans
//	@Produce		json
//	@Success		200	{array}		plans.Plan
//	@Failure		500	{object}	error
//	@Router			/plans [get]
func (app *application) listPlansHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.catalog.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err, "Failed to fetch plans")
		return
	}

	if err := writeJSON(w, http.StatusOK, list); err != nil {
		app.logger.Errorw("write response", "path", r.URL.Path, "error", err.Error())
	}
}
