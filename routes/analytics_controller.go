package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/formhive/formhive/analytics"
	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/log"
	"github.com/formhive/formhive/model"
)

// AnalyticsOverview reports cross-form totals and period-over-period growth
// for the caller's forms, or a single form when formId is given.
func AnalyticsOverview(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "analytics.overview.period", "%s", err)
			return
		}

		ownerID, err := currentUserID(r, app)
		if err != nil {
			respondOwnership(w, "analytics.overview.identity", nil, err)
			return
		}

		var forms []model.Form
		if selector := r.URL.Query().Get("formId"); selector == "" || selector == "all" {
			forms, err = loadOwnerForms(r.Context(), app, ownerID)
			if err != nil {
				httpx.LogInternalError(w, "analytics.overview.load_forms", err)
				return
			}
		} else {
			formID, err := strconv.Atoi(selector)
			if err != nil {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "analytics.overview.form_id")
				return
			}
			form, err := loadOwnedForm(r.Context(), app, formID, ownerID)
			if err != nil {
				respondOwnership(w, "analytics.overview.load_form", formID, err)
				return
			}
			forms = []model.Form{form}
		}

		responses, err := loadResponses(r.Context(), app, formIDs(forms))
		if err != nil {
			httpx.LogInternalError(w, "analytics.overview.load_responses", err)
			return
		}

		render.JSON(w, r, analytics.BuildOverview(forms, responses, period, time.Now()))
	}
}

// AnalyticsFunnel reports per-field reach/completion statistics for one form.
func AnalyticsFunnel(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, ok := requireFormSelector(w, r, "analytics.funnel")
		if !ok {
			return
		}

		ownerID, err := currentUserID(r, app)
		if err != nil {
			respondOwnership(w, "analytics.funnel.identity", nil, err)
			return
		}

		form, err := loadOwnedForm(r.Context(), app, formID, ownerID)
		if err != nil {
			respondOwnership(w, "analytics.funnel.load_form", formID, err)
			return
		}

		elements, err := loadElements(r.Context(), app, formID)
		if err != nil {
			httpx.LogInternalError(w, "analytics.funnel.load_elements", err)
			return
		}

		responses, err := loadResponses(r.Context(), app, []int{formID})
		if err != nil {
			httpx.LogInternalError(w, "analytics.funnel.load_responses", err)
			return
		}

		fields := analytics.ExtractFields(elements)
		steps := analytics.BuildFunnel(fields, responses)

		render.JSON(w, r, map[string]any{
			"formId":         form.ID,
			"formTitle":      form.Title,
			"totalViews":     form.Views,
			"totalResponses": len(responses),
			"conversionRate": analytics.ConversionRate(len(responses), form.Views),
			"steps":          steps,
			"needsAttention": analytics.NeedsAttention(steps),
		})
	}
}

// AnalyticsDistribution returns the field picklist when fieldId is omitted,
// or the per-type answer distribution of one field.
func AnalyticsDistribution(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, ok := requireFormSelector(w, r, "analytics.distribution")
		if !ok {
			return
		}

		ownerID, err := currentUserID(r, app)
		if err != nil {
			respondOwnership(w, "analytics.distribution.identity", nil, err)
			return
		}

		form, err := loadOwnedForm(r.Context(), app, formID, ownerID)
		if err != nil {
			respondOwnership(w, "analytics.distribution.load_form", formID, err)
			return
		}

		elements, err := loadElements(r.Context(), app, formID)
		if err != nil {
			httpx.LogInternalError(w, "analytics.distribution.load_elements", err)
			return
		}
		fields := analytics.ExtractFields(elements)

		fieldID := r.URL.Query().Get("fieldId")
		if fieldID == "" {
			render.JSON(w, r, map[string]any{
				"formTitle": form.Title,
				"fields":    fields,
			})
			return
		}

		var field *analytics.Field
		for i := range fields {
			if fields[i].ID == fieldID {
				field = &fields[i]
				break
			}
		}
		if field == nil {
			httpx.LogNotFound(w, "analytics.distribution.field", fieldID)
			return
		}

		responses, err := loadResponses(r.Context(), app, []int{formID})
		if err != nil {
			httpx.LogInternalError(w, "analytics.distribution.load_responses", err)
			return
		}

		render.JSON(w, r, analytics.AnalyzeField(responses, *field))
	}
}

// AnalyticsTimeline returns the zero-filled per-day submission series.
func AnalyticsTimeline(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "analytics.timeline.period", "%s", err)
			return
		}

		ownerID, err := currentUserID(r, app)
		if err != nil {
			respondOwnership(w, "analytics.timeline.identity", nil, err)
			return
		}

		var ids []int
		if selector := r.URL.Query().Get("formId"); selector == "" || selector == "all" {
			forms, err := loadOwnerForms(r.Context(), app, ownerID)
			if err != nil {
				httpx.LogInternalError(w, "analytics.timeline.load_forms", err)
				return
			}
			ids = formIDs(forms)
		} else {
			formID, err := strconv.Atoi(selector)
			if err != nil {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "analytics.timeline.form_id")
				return
			}
			if _, err := loadOwnedForm(r.Context(), app, formID, ownerID); err != nil {
				respondOwnership(w, "analytics.timeline.load_form", formID, err)
				return
			}
			ids = []int{formID}
		}

		responses, err := loadResponses(r.Context(), app, ids)
		if err != nil {
			httpx.LogInternalError(w, "analytics.timeline.load_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"data": analytics.BuildTimeline(responses, period, time.Now()),
		})
	}
}

// requireFormSelector rejects the formId=all selector on endpoints that only
// make sense for one specific form.
func requireFormSelector(w http.ResponseWriter, r *http.Request, code string) (int, bool) {
	selector := r.URL.Query().Get("formId")
	if selector == "" || selector == "all" {
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code+".form_id", "select a specific form")
		return 0, false
	}
	formID, err := strconv.Atoi(selector)
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, code+".form_id")
		return 0, false
	}
	return formID, true
}

// respondOwnership maps the shared load errors to their HTTP statuses without
// leaking whether a foreign form exists.
func respondOwnership(w http.ResponseWriter, code string, id any, err error) {
	switch {
	case errors.Is(err, errNotFound):
		httpx.LogNotFound(w, code, id)
	case errors.Is(err, errForbidden):
		httpx.LogStatus(w, http.StatusForbidden, log.DebugLevel, code+".forbidden")
	default:
		httpx.LogInternalError(w, code, err)
	}
}
