package roles

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	roleService *Service
}

// RoleResponse is a role with its permissions flattened to capability names.
type RoleResponse struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	IsSystem     bool     `json:"is_system"`
	Capabilities []string `json:"capabilities"`
}

func toResponse(role *models.Role) RoleResponse {
	caps := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		caps = append(caps, p.Capability())
	}
	return RoleResponse{ID: role.ID, Name: role.Name, IsSystem: role.IsSystem, Capabilities: caps}
}

func roleID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errcodes.NotFound("Role")
	}
	return id, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateRolePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	role, err := h.roleService.Create(ctx, params.Name, params.Capabilities)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("role created", logger.Data{"role_id": role.ID, "name": role.Name})

	return errors.WithStack(c.JSON(http.StatusCreated, toResponse(role)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := roleID(c)
	if err != nil {
		return err
	}

	role, err := h.roleService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, toResponse(role)))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListRolesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	roles, total, err := h.roleService.List(ctx, ListOptions(params))
	if err != nil {
		return err
	}

	resp := struct {
		Roles []RoleResponse `json:"roles"`
		Total int            `json:"total"`
	}{make([]RoleResponse, 0, len(roles)), total}
	for _, r := range roles {
		resp.Roles = append(resp.Roles, toResponse(r))
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := roleID(c)
	if err != nil {
		return err
	}

	params := UpdateRolePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	role, err := h.roleService.Update(ctx, id, params.Name, params.Capabilities)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, toResponse(role)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := roleID(c)
	if err != nil {
		return err
	}

	if err := h.roleService.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("role deleted", logger.Data{"role_id": id})

	return c.NoContent(http.StatusNoContent)
}
