package binder

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type formParams struct {
	Imprint string `form:"imprint" mod:"trim" validate:"required,max=200"`
	Status  string `form:"status" default:"m" validate:"loanstatus"`
	DueBack string `form:"due_back" validate:"date"`
}

type queryParams struct {
	Page int `query:"page" default:"1" validate:"min=1"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

func TestBind_Form(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes and ignores unknown keys", func(tt *testing.T) {
		c := newContext("imprint=+Gollancz+&due_back=2024-03-01&submit=Save", echo.MIMEApplicationForm)
		p := formParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "Gollancz", p.Imprint)
		assert.Equal(tt, "m", p.Status)
		assert.Equal(tt, "2024-03-01", p.DueBack)
	})

	t.Run("rejects unknown loan statuses", func(tt *testing.T) {
		c := newContext("imprint=x&status=z", echo.MIMEApplicationForm)
		p := formParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"status" must be one of the following`)
	})

	t.Run("rejects malformed dates", func(tt *testing.T) {
		c := newContext("imprint=x&due_back=2024-13-01", echo.MIMEApplicationForm)
		p := formParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"due_back" should be in the format of YYYY-MM-DD`)
	})

	t.Run("names required fields by their form key", func(tt *testing.T) {
		c := newContext("status=a", echo.MIMEApplicationForm)
		p := formParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"imprint" is required`)
	})
}

func TestBind_Query(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(echo.GET, "/?page=3", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	p := queryParams{}
	require.NoError(t, b.Bind(&p, c))
	assert.Equal(t, 3, p.Page)

	req = httptest.NewRequest(echo.GET, "/", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	p = queryParams{}
	require.NoError(t, b.Bind(&p, c))
	assert.Equal(t, 1, p.Page)

	req = httptest.NewRequest(echo.GET, "/?page=abc", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	p = queryParams{}
	err = b.Bind(&p, c)
	assert.Contains(t, err.Error(), `"page" should be of type int`)
}

func TestBind_EmptyBody(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newContext("", echo.MIMEApplicationJSON)
	p := params{}
	assert.Contains(t, b.Bind(&p, c).Error(), "Request body can't be empty.")

	c = newContext("", echo.MIMEApplicationJSON)
	c.Set("disallow_empty_body", false)
	assert.NoError(t, b.Bind(&p, c))
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

type isbnParams struct {
	ISBN string `json:"isbn" mod:"trim,isbn" validate:"required,len=13"`
}

func TestBind_ISBN(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("upgrades hyphenated ISBN-10s", func(tt *testing.T) {
		c := newContext(`{"isbn":" 0-441-17271-7 "}`, echo.MIMEApplicationJSON)
		p := isbnParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "9780441172719", p.ISBN)
	})

	t.Run("still checks the length", func(tt *testing.T) {
		c := newContext(`{"isbn":"12-3"}`, echo.MIMEApplicationJSON)
		p := isbnParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"isbn" length must be exactly 13 characters`)
	})
}
