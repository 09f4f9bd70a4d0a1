package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/binder"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/stretchr/testify/require"
)

// Renderer records the last template rendered instead of producing HTML.
type Renderer struct {
	mu   sync.Mutex
	Name string
	Data map[string]interface{}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Name = name
	r.Data, _ = data.(map[string]interface{})
	_, err := w.Write([]byte(name))
	return err
}

// NewEcho returns an echo instance configured like the server: the catalog
// binder, the errcodes handler, and a recording renderer.
func NewEcho(t *testing.T) (*echo.Echo, *Renderer) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	r := &Renderer{}
	e.Renderer = r
	return e, r
}

// Request is a request to run through ServeHTTP.
type Request struct {
	Method string
	Target string
	Form   url.Values
	JSON   string
	User   *models.User
	Header http.Header
	// Cookies are added to the request as-is.
	Cookies []*http.Cookie
}

// Serve runs the request through the full router. A user is injected with
// a pre-middleware so capability guards see it without a login cookie.
func Serve(e *echo.Echo, req Request) *httptest.ResponseRecorder {
	var body io.Reader
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
	case req.JSON != "":
		body = strings.NewReader(req.JSON)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Target, body)
	switch {
	case req.Form != nil:
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	case req.JSON != "":
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	for _, c := range req.Cookies {
		r.AddCookie(c)
	}
	if req.User != nil {
		r = r.WithContext(withUser(r.Context(), req.User))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)
	return rec
}
