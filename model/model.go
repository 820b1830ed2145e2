package model

import "time"

type FormStatus string

const (
	StatusDraft     FormStatus = "draft"
	StatusPublished FormStatus = "published"
	StatusArchived  FormStatus = "archived"
)

type ElementType string

const (
	ElementText   ElementType = "text"
	ElementButton ElementType = "button"
	ElementImage  ElementType = "image"
	ElementField  ElementType = "field"
)

type FieldType string

const (
	FieldText           FieldType = "text"
	FieldShortText      FieldType = "shortText"
	FieldLongText       FieldType = "longText"
	FieldEmail          FieldType = "email"
	FieldCheckbox       FieldType = "checkbox"
	FieldMultipleChoice FieldType = "multipleChoice"
	FieldRating         FieldType = "rating"
)

type Form struct {
	ID          int        `json:"id,omitempty"`
	OwnerID     int        `json:"-"`
	Title       string     `json:"title"`
	Status      FormStatus `json:"status,omitempty"`
	Views       int        `json:"views"`
	Submissions int        `json:"submissions"`
	Elements    []Element  `json:"elements"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

// Element is a tagged variant: text, button and image elements are
// decorative, field elements capture input and carry the field attributes.
type Element struct {
	ID          string      `json:"id,omitempty"`
	Type        ElementType `json:"type"`
	FieldType   FieldType   `json:"fieldType,omitempty"`
	Label       string      `json:"label,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Options     any         `json:"options,omitempty"`
	Position    int         `json:"position"`
}

func (e Element) IsField() bool {
	return e.Type == ElementField
}

// FormResponse is immutable once created. Data maps field element ids to
// submitted values; any key may be missing or null.
type FormResponse struct {
	ID          string         `json:"id"`
	FormID      int            `json:"formId"`
	Data        map[string]any `json:"data"`
	SubmittedAt time.Time      `json:"submittedAt"`
	IP          string         `json:"-"`
	UserAgent   string         `json:"-"`
}
