package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/target/backoffice-ui/internal/errors"
)

// FormField describes one input of a resource form.
type FormField struct {
	Name  string
	Label string
	// Type is the input type: text, email, number, textarea or checkbox.
	Type        string
	Placeholder string
	Help        string
	Required    bool
	// Step is the number input step, e.g. "0.01".
	Step string
}

// FormSpec binds a record type to its form.
type FormSpec[T any] struct {
	Fields []FormField
	// Parse validates submitted values and builds the record. Field errors
	// are keyed by field name.
	Parse func(url.Values) (T, map[string]string)
	// Values renders a record back into form values for editing.
	Values func(T) url.Values
	// Defaults prefill the create form.
	Defaults url.Values
}

// fieldView is a FormField with its current value and error.
type fieldView struct {
	FormField
	Value   string
	Checked bool
	Error   string
}

func buildFieldViews(fields []FormField, values url.Values, errs map[string]string) []fieldView {
	out := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		v := fieldView{FormField: f, Value: values.Get(f.Name), Error: errs[f.Name]}
		if f.Type == "checkbox" {
			v.Checked = formBool(values, f.Name)
		}
		out = append(out, v)
	}
	return out
}

// formState is everything a form render needs beyond the page chrome.
type formState struct {
	Mode    FormMode
	ID      string
	Values  url.Values
	Errors  map[string]string
	General string
	Status  int
}

func (ui *ResourceUI[T]) renderForm(h *UIHandlers, w http.ResponseWriter, r *http.Request, st formState) {
	title := "New " + strings.ToLower(ui.Meta.Singular)
	action := ui.Meta.Path()
	if st.Mode == FormModeEdit {
		title = "Edit " + strings.ToLower(ui.Meta.Singular)
		action = ui.Meta.Path() + "/" + url.PathEscape(st.ID)
	}
	b := NewTemplateData(r, PageMeta{
		Title:       title,
		PageTitle:   title,
		CurrentPage: ui.Meta.Name,
		Kind:        PageForm,
	}).
		With("Resource", ui.Meta).
		With("Mode", string(st.Mode)).
		With("Action", action).
		With("CancelURL", ui.Meta.Path()).
		With("Fields", buildFieldViews(ui.Form.Fields, st.Values, st.Errors)).
		WithFieldErrors(st.Errors)
	if st.General != "" {
		b.WithError(st.General)
	}
	if st.Mode == FormModeEdit {
		b.With("DeleteURL", action+"/delete")
	}
	status := st.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.renderPageStatus(w, r, status, b.Build())
}

func (ui *ResourceUI[T]) newForm(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	values := url.Values{}
	for k, v := range ui.Form.Defaults {
		values[k] = append([]string(nil), v...)
	}
	ui.renderForm(h, w, r, formState{Mode: FormModeCreate, Values: values})
}

func (ui *ResourceUI[T]) editForm(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := ui.Store.Get(r.Context(), id)
	switch {
	case err == nil:
	case apperrors.IsUnauthorized(err):
		h.endSession(w, r)
		return
	case apperrors.IsNotFound(err):
		h.NotFound(w, r)
		return
	default:
		h.logger().WarnContext(r.Context(), "load record failed",
			"resource", ui.Meta.Name,
			"id", id,
			"error", err)
		h.renderError(w, r, http.StatusBadGateway,
			apperrors.UserMessage(err, "Unable to load "+strings.ToLower(ui.Meta.Singular)+"."))
		return
	}
	ui.renderForm(h, w, r, formState{Mode: FormModeEdit, ID: id, Values: ui.Form.Values(rec)})
}

// save handles create and update submissions. Input is validated locally
// before anything is sent to the backend.
func (ui *ResourceUI[T]) save(h *UIHandlers, w http.ResponseWriter, r *http.Request, mode FormMode) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	if mode == FormModeEdit && id == "" {
		h.NotFound(w, r)
		return
	}

	rec, fieldErrs := ui.Form.Parse(r.PostForm)
	if len(fieldErrs) > 0 {
		ui.renderForm(h, w, r, formState{
			Mode:    mode,
			ID:      id,
			Values:  r.PostForm,
			Errors:  fieldErrs,
			General: errMsgFixBelow,
			Status:  formErrorStatus(r),
		})
		return
	}

	var err error
	if mode == FormModeEdit {
		_, err = ui.Store.Update(r.Context(), id, rec)
	} else {
		_, err = ui.Store.Create(r.Context(), rec)
	}
	if err != nil {
		ui.handleSaveError(h, w, r, formState{Mode: mode, ID: id, Values: r.PostForm}, err)
		return
	}

	if !ui.refresh(h, r) {
		h.signIn(w, r)
		return
	}
	HTMX(w).Redirect(r, ui.Meta.Path())
}

// handleSaveError maps a backend rejection onto the form. 401 ends the
// session; 400/409/422 messages become the general error, attached to a
// field too when the backend named one.
func (ui *ResourceUI[T]) handleSaveError(h *UIHandlers, w http.ResponseWriter, r *http.Request, st formState, err error) {
	if errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		http.Error(w, "request canceled", http.StatusRequestTimeout)
		return
	}
	if apperrors.IsUnauthorized(err) {
		h.endSession(w, r)
		return
	}

	st.Status = formErrorStatus(r)
	switch {
	case apperrors.IsValidation(err), apperrors.IsConflict(err):
		st.General = apperrors.UserMessage(err, "Unable to save. Please check the values and try again.")
		if field := apperrors.GetField(err); field != "" {
			st.Errors = map[string]string{field: st.General}
		}
	case apperrors.IsNotFound(err) && st.Mode == FormModeEdit:
		st.General = "This " + strings.ToLower(ui.Meta.Singular) + " no longer exists."
	case apperrors.IsForbidden(err):
		st.General = apperrors.UserMessage(err, "You do not have permission to perform this action.")
	default:
		h.logger().ErrorContext(r.Context(), "save record failed",
			"resource", ui.Meta.Name,
			"mode", string(st.Mode),
			"error", err)
		st.General = apperrors.UserMessage(err, "Unable to save. Please try again.")
	}
	triggerToast(w, st.General, "error")
	ui.renderForm(h, w, r, st)
}

// delete removes a record and returns to the list.
func (ui *ResourceUI[T]) delete(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}
	err := ui.Store.Delete(r.Context(), id)
	switch {
	case err == nil, apperrors.IsNotFound(err):
	case apperrors.IsUnauthorized(err):
		h.endSession(w, r)
		return
	default:
		msg := apperrors.UserMessage(err, "Unable to delete "+strings.ToLower(ui.Meta.Singular)+".")
		h.logger().WarnContext(r.Context(), "delete record failed",
			"resource", ui.Meta.Name,
			"id", id,
			"error", err)
		if IsHTMX(r) {
			triggerToast(w, msg, "error")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.renderError(w, r, http.StatusBadGateway, msg)
		return
	}

	if !ui.refresh(h, r) {
		h.signIn(w, r)
		return
	}
	HTMX(w).Redirect(r, ui.Meta.Path())
}

// formErrorStatus keeps htmx requests at 200 so the form swaps in; plain
// posts get 422.
func formErrorStatus(r *http.Request) int {
	if IsHTMX(r) {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

func formValue(v url.Values, key string) string { return strings.TrimSpace(v.Get(key)) }

func formBool(v url.Values, key string) bool {
	switch strings.ToLower(strings.TrimSpace(v.Get(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
