package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	apperrors "github.com/target/backoffice-ui/internal/errors"
	"github.com/target/backoffice-ui/internal/testutil"
)

func newSupplierFormRouter(t *testing.T, role domainauth.Role, n int) (*resourceRouter, *fakeSupplierStore) {
	t.Helper()
	store := newFakeSupplierStore(testutil.Suppliers(n))
	ctrl := newSupplierController(t, supplierControllerOpts{store: store})
	return newResourceRouter(t, role, SupplierUI(ctrl, store)), store
}

func validSupplierForm() url.Values {
	return url.Values{
		"name":   {"Acme Supplies"},
		"taxId":  {"TAX-9000"},
		"email":  {"billing@acme.example.com"},
		"active": {"true"},
	}
}

func TestForm_NewRendersDefaults(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)

	w := rr.do(requestOpts{target: "/suppliers/new"})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>New supplier</title>")
	assert.Contains(t, body, `name="taxId"`)
	assert.Contains(t, body, `name="active" value="true" checked`)
	assert.Contains(t, body, "Create Supplier")
	assert.NotContains(t, body, "Delete Supplier")
}

func TestForm_RequiresAdmin(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleUser, 1)

	w := rr.do(requestOpts{target: "/suppliers/new"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm()})
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, created := store.byID("sup-2")
	assert.False(t, created)
}

func TestForm_CreateValidationErrors(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)
	form := url.Values{"name": {"  "}, "taxId": {"TAX-1"}, "email": {"not-an-email"}}

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: form})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, errMsgFixBelow)
	assert.Contains(t, body, "Name is required.")
	assert.Contains(t, body, `value="not-an-email"`, "submitted values are kept")
	assert.Empty(t, store.records, "invalid input never reaches the backend")
}

func TestForm_CreateValidationErrorsHTMX(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: url.Values{}, htmx: true})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tax ID is required.")
}

func TestForm_CreateSuccessRedirectsAndRefetches(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 2)
	require.Equal(t, http.StatusOK, rr.do(requestOpts{target: "/suppliers"}).Code)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm()})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/suppliers", w.Header().Get("Location"))
	rec, ok := store.byID("sup-3")
	require.True(t, ok)
	assert.Equal(t, "Acme Supplies", rec.Name)
	assert.True(t, rec.Active)
	assert.Equal(t, int32(2), store.fetches.Load(), "list is refetched after a write")

	list := rr.do(requestOpts{target: "/suppliers"})
	assert.Contains(t, list.Body.String(), "Acme Supplies")
}

func TestForm_CreateSuccessHTMX(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm(), htmx: true})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/suppliers", w.Header().Get("Hx-Redirect"))
}

func TestForm_BackendValidationMapsToField(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)
	store.setErr(apperrors.ValidationField("taxId", "Tax ID is already registered."))

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm(), htmx: true})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Tax ID is already registered.")
	assert.Contains(t, body, "has-error")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "showToast")
}

func TestForm_BackendConflictPlainPost(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)
	store.setErr(apperrors.Conflict("A supplier with this name already exists."))

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm()})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "A supplier with this name already exists.")
}

func TestForm_BackendFailureHidesDetails(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)
	store.setErr(assert.AnError)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm()})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to save. Please try again.")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestForm_BackendUnauthorizedEndsSession(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)
	store.setErr(apperrors.Unauthorized("token expired"))

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers", form: validSupplierForm()})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2F", w.Header().Get("Location"))
	assert.Equal(t, []string{"sess-1"}, rr.auth.invalidatedIDs())
	cookie := findCookie(w, sessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestForm_EditPrefillsValues(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 2)

	w := rr.do(requestOpts{target: "/suppliers/sup-2/edit"})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Supplier 02"`)
	assert.Contains(t, body, `action="/suppliers/sup-2"`)
	assert.Contains(t, body, "/suppliers/sup-2/delete")
	assert.Contains(t, body, "Save changes")
}

func TestForm_EditMissingRecord(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 1)

	w := rr.do(requestOpts{target: "/suppliers/sup-404/edit"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForm_UpdateSuccess(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 2)
	form := validSupplierForm()
	form.Del("active")

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers/sup-1", form: form})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	rec, ok := store.byID("sup-1")
	require.True(t, ok)
	assert.Equal(t, "Acme Supplies", rec.Name)
	assert.False(t, rec.Active, "unchecked box clears the flag")
}

func TestForm_UpdateVanishedRecord(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 1)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers/sup-9", form: validSupplierForm()})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "This supplier no longer exists.")
}

func TestForm_Delete(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 3)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers/sup-2/delete", htmx: true})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/suppliers", w.Header().Get("Hx-Redirect"))
	_, ok := store.byID("sup-2")
	assert.False(t, ok)
}

func TestForm_DeleteMissingIsIdempotent(t *testing.T) {
	rr, _ := newSupplierFormRouter(t, domainauth.RoleAdmin, 1)

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers/sup-9/delete"})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/suppliers", w.Header().Get("Location"))
}

func TestForm_DeleteFailureHTMXToast(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 1)
	store.setErr(apperrors.Conflict("Supplier has open invoices."))

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers/sup-1/delete", htmx: true})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "Supplier has open invoices.")
}

func TestForm_DeleteFailurePlain(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 1)
	store.setErr(apperrors.Unavailable("The finance service is unavailable."))

	w := rr.do(requestOpts{method: http.MethodPost, target: "/suppliers/sup-1/delete"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "The finance service is unavailable.")
}

func TestForm_PostWithoutCSRFTokenRejected(t *testing.T) {
	rr, store := newSupplierFormRouter(t, domainauth.RoleAdmin, 0)
	req := newFormRequest("/suppliers", validSupplierForm())
	w := serve(rr.handler, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.records)
}

func TestFormBool(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "yes", " TRUE "} {
		assert.True(t, formBool(url.Values{"k": {v}}, "k"), v)
	}
	for _, v := range []string{"", "off", "false", "0"} {
		assert.False(t, formBool(url.Values{"k": {v}}, "k"), v)
	}
	assert.False(t, formBool(url.Values{}, "k"))
}

// newFormRequest builds a signed-in form post without a CSRF token.
func newFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
