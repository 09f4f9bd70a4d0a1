package genres

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	ListTemplate = "catalog/genre_list.html"
	FormTemplate = "catalog/genre_form.html"
)

type handler struct {
	genreService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.genreService.ListGenres(ctx, ListGenresOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, ListTemplate, map[string]interface{}{
		"genre_list": genres,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, FormTemplate, formContext(CreateGenrePayload{}, "")))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateGenrePayload{}
	if err := c.Bind(&params); err != nil {
		if msg, ok := errcodes.ValidationMessage(err); ok {
			return errors.WithStack(c.Render(http.StatusOK, FormTemplate, formContext(params, msg)))
		}
		return errors.WithStack(err)
	}

	genre := &models.Genre{Name: params.Name}
	if err := h.genreService.CreateGenre(ctx, genre); err != nil {
		if msg, ok := errcodes.ValidationMessage(err); ok {
			return errors.WithStack(c.Render(http.StatusOK, FormTemplate, formContext(params, msg)))
		}
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("genre created", logger.Data{"genre_id": genre.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("genres")))
}

func formContext(form CreateGenrePayload, errMsg string) map[string]interface{} {
	return map[string]interface{}{
		"form":      form,
		"error":     errMsg,
		"help_text": models.GenreNameHelpText,
		"max_name":  models.GenreNameMaxLength,
	}
}
