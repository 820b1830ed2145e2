package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/log"
	"github.com/formhive/formhive/model"
)

// PublicGetForm renders a published form and counts the view. The view
// counter is the authoritative denominator for completion-rate math, so it
// is incremented here and never recomputed.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form := model.Form{ID: formID}
		err = app.QueryRowContext(r.Context(), `
			SELECT title, status FROM form WHERE id = ?`,
			formID,
		).Scan(&form.Title, &form.Status)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && form.Status != model.StatusPublished) {
			httpx.LogNotFound(w, "public.get_form", formID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		form.Elements, err = loadElements(r.Context(), app, formID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_form.elements", err)
			return
		}

		_, err = app.ExecContext(r.Context(), `
			UPDATE form SET views = views + 1 WHERE id = ?`,
			formID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_form.count_view", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"id":       form.ID,
			"title":    form.Title,
			"elements": form.Elements,
		})
	}
}

// PublicSubmitResponse records one immutable response row. The submission is
// gated by the owner's quota and bumps both the form's submission counter
// and the owner's monthly usage.
func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var body struct {
			Data map[string]any `json:"data"`
		}
		err = render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var ownerID int
		var status model.FormStatus
		err = app.QueryRowContext(r.Context(), `
			SELECT owner_id, status FROM form WHERE id = ?`,
			formID,
		).Scan(&ownerID, &status)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && status != model.StatusPublished) {
			httpx.LogNotFound(w, "public.submit", formID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		allowed, err := app.Billing.CheckSubmissionQuota(r.Context(), ownerID)
		if err != nil {
			httpx.LogInternalError(w, "billing.check_quota", err)
			return
		}
		if !allowed {
			httpx.LogStatusMsg(w, http.StatusTooManyRequests, log.InfoLevel, "billing.quota_exceeded",
				"submission quota exceeded")
			return
		}

		dataJson, err := json.Marshal(body.Data)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.parse_data", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		responseID := uuid.NewString()
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO form_response (id, form_id, data, submitted_at, ip, user_agent)
			VALUES (?, ?, ?, ?, ?, ?)`,
			responseID,
			formID,
			string(dataJson),
			time.Now().UTC(),
			strings.Split(r.RemoteAddr, ":")[0],
			r.UserAgent(),
		)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		_, err = tx.ExecContext(r.Context(), `
			UPDATE form SET submissions = submissions + 1 WHERE id = ?`,
			formID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.count", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.commit", err)
			return
		}

		err = app.Billing.IncrementSubmissionUsage(r.Context(), ownerID)
		if err != nil {
			// the response row is already committed; usage drift is logged,
			// not surfaced to the respondent
			log.Errorf("billing.increment_usage: %s", err)
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": responseID,
		})
	}
}
