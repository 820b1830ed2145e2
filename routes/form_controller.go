package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/log"
	"github.com/formhive/formhive/model"
)

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := currentUserID(r, app)
		if err != nil {
			respondOwnership(w, "form.create.identity", nil, err)
			return
		}

		form := model.Form{}
		err = render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		var formID int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO form (owner_id, title, status, created_at) VALUES (?, ?, ?, ?)
			RETURNING id`,
			ownerID,
			form.Title,
			model.StatusDraft,
			time.Now().UTC(),
		).Scan(&formID)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form", err)
			return
		}

		err = replaceElements(r.Context(), tx, formID, form.Elements)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form.elements", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": formID,
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := currentUserID(r, app)
		if err != nil {
			respondOwnership(w, "form.list.identity", nil, err)
			return
		}

		forms, err := loadOwnerForms(r.Context(), app, ownerID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedFormFromPath(w, r, app, "form.get")
		if !ok {
			return
		}

		elements, err := loadElements(r.Context(), app, form.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_form.elements", err)
			return
		}
		form.Elements = elements

		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedFormFromPath(w, r, app, "form.update")
		if !ok {
			return
		}

		update := model.Form{}
		err := render.DecodeJSON(r.Body, &update)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(r.Context(), `
			DELETE FROM form_element
			WHERE form_id = ?`,
			form.ID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.delete_elements", err)
			return
		}

		err = replaceElements(r.Context(), tx, form.ID, update.Elements)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.elements", err)
			return
		}

		_, err = tx.ExecContext(r.Context(), `
			UPDATE form SET title = ? WHERE id = ?`,
			update.Title,
			form.ID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.commit", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedFormFromPath(w, r, app, "form.delete")
		if !ok {
			return
		}

		// elements and responses cascade with the form
		_, err := app.ExecContext(r.Context(), `
			DELETE FROM form WHERE id = ?`,
			form.ID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func PublishForm(app app.App) http.HandlerFunc {
	return setFormStatus(app, "form.publish", model.StatusDraft, model.StatusPublished)
}

func ArchiveForm(app app.App) http.HandlerFunc {
	return setFormStatus(app, "form.archive", model.StatusPublished, model.StatusArchived)
}

func setFormStatus(app app.App, code string, from, to model.FormStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedFormFromPath(w, r, app, code)
		if !ok {
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE form SET status = ? WHERE id = ? AND status = ?`,
			to,
			form.ID,
			from,
		)
		if err != nil {
			httpx.LogInternalError(w, code, err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, code+".verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, code+".status",
				"form is not %s", from)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ListFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedFormFromPath(w, r, app, "form.responses")
		if !ok {
			return
		}

		responses, err := loadResponses(r.Context(), app, []int{form.ID})
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

// ownedFormFromPath parses {id}, resolves the caller and checks ownership.
func ownedFormFromPath(w http.ResponseWriter, r *http.Request, app app.App, code string) (model.Form, bool) {
	formID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
		return model.Form{}, false
	}

	ownerID, err := currentUserID(r, app)
	if err != nil {
		respondOwnership(w, code+".identity", nil, err)
		return model.Form{}, false
	}

	form, err := loadOwnedForm(r.Context(), app, formID, ownerID)
	if err != nil {
		respondOwnership(w, code+".load_form", formID, err)
		return model.Form{}, false
	}
	return form, true
}

// replaceElements inserts a form's element list, assigning fresh ids to new
// elements and explicit 1-based positions from the submitted order.
func replaceElements(ctx context.Context, tx *sql.Tx, formID int, elements []model.Element) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_element (id, form_id, element_type, field_type, label, placeholder, required, options, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, el := range elements {
		if el.ID == "" {
			el.ID = uuid.NewString()
		}

		var optionsJson []byte
		if el.Options != nil {
			optionsJson, err = json.Marshal(el.Options)
			if err != nil {
				return err
			}
		}

		_, err = stmt.ExecContext(ctx,
			el.ID, formID, el.Type, el.FieldType,
			el.Label, el.Placeholder, el.Required, string(optionsJson),
			i+1,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
