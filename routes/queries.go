package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/model"
	"github.com/formhive/formhive/routes/middlewares"
)

var (
	errNotFound  = errors.New("form not found")
	errForbidden = errors.New("forbidden")
)

// currentUserID resolves the bearer identity to its account id.
func currentUserID(r *http.Request, app app.App) (int, error) {
	username := middlewares.Username(r)
	if username == "" {
		return 0, errForbidden
	}

	var id int
	err := app.QueryRowContext(r.Context(), `
		SELECT id FROM user WHERE username = ?`,
		username,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errForbidden
	}
	return id, err
}

// loadOwnedForm fetches a form and enforces ownership before anything else
// touches it. A foreign form yields errForbidden with no detail about the
// form itself.
func loadOwnedForm(ctx context.Context, app app.App, formID, ownerID int) (model.Form, error) {
	form := model.Form{ID: formID}
	err := app.QueryRowContext(ctx, `
		SELECT owner_id, title, status, views, submissions, created_at
		FROM form
		WHERE id = ?`,
		formID,
	).Scan(&form.OwnerID, &form.Title, &form.Status, &form.Views, &form.Submissions, &form.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return form, errNotFound
	}
	if err != nil {
		return form, err
	}
	if form.OwnerID != ownerID {
		return model.Form{}, errForbidden
	}
	return form, nil
}

func loadOwnerForms(ctx context.Context, app app.App, ownerID int) ([]model.Form, error) {
	rows, err := app.QueryContext(ctx, `
		SELECT id, owner_id, title, status, views, submissions, created_at
		FROM form
		WHERE owner_id = ?
		ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f := model.Form{}
		err = rows.Scan(&f.ID, &f.OwnerID, &f.Title, &f.Status, &f.Views, &f.Submissions, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// loadElements returns a form's elements in canonical (position) order.
func loadElements(ctx context.Context, app app.App, formID int) ([]model.Element, error) {
	rows, err := app.QueryContext(ctx, `
		SELECT id, element_type, field_type, label, placeholder, required, options, position
		FROM form_element
		WHERE form_id = ?
		ORDER BY position`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	elements := []model.Element{}
	for rows.Next() {
		el := model.Element{}
		var opts string
		err = rows.Scan(&el.ID, &el.Type, &el.FieldType, &el.Label, &el.Placeholder, &el.Required, &opts, &el.Position)
		if err != nil {
			return nil, err
		}
		if opts != "" {
			err = json.Unmarshal([]byte(opts), &el.Options)
			if err != nil {
				return nil, err
			}
		}
		elements = append(elements, el)
	}
	return elements, rows.Err()
}

// loadResponses bulk-fetches the responses of one or more forms in a single
// query, so aggregation never issues per-field round-trips.
func loadResponses(ctx context.Context, app app.App, formIDs []int) ([]model.FormResponse, error) {
	if len(formIDs) == 0 {
		return []model.FormResponse{}, nil
	}

	placeholders := strings.Repeat("?,", len(formIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(formIDs))
	for i, id := range formIDs {
		args[i] = id
	}

	rows, err := app.QueryContext(ctx, `
		SELECT id, form_id, data, submitted_at
		FROM form_response
		WHERE form_id IN (`+placeholders+`)
		ORDER BY submitted_at`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.FormResponse{}
	for rows.Next() {
		resp := model.FormResponse{}
		var data string
		err = rows.Scan(&resp.ID, &resp.FormID, &data, &resp.SubmittedAt)
		if err != nil {
			return nil, err
		}
		err = json.Unmarshal([]byte(data), &resp.Data)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func formIDs(forms []model.Form) []int {
	ids := make([]int, len(forms))
	for i, f := range forms {
		ids[i] = f.ID
	}
	return ids
}
