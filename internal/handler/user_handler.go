package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"userapi/internal/errors"
	"userapi/internal/mapper"
	"userapi/internal/model"
	"userapi/internal/service"
)

// UserHandler serves the users resource.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Index godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} mapper.UserResource
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) Index(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return c.JSON(http.StatusOK, mapper.Collection(users))
}

// Show godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} mapper.UserResource
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Show(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	return c.JSON(http.StatusOK, mapper.Single(user))
}

// Store godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body model.CreateUserInput true "User payload"
// @Success 201 {object} mapper.UserResource
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Store(c echo.Context) error {
	var in model.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return invalidBody()
	}

	user, err := h.svc.CreateUser(c.Request().Context(), in)
	if err != nil {
		return failure(c, err)
	}
	return c.JSON(http.StatusCreated, mapper.Single(user))
}

// Update godoc
// @Summary Update user
// @Description Only supplied fields change. Text fields are trimmed; a blank password is ignored.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body model.UpdateUserInput true "Fields to change"
// @Success 200 {object} mapper.UserResource
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var in model.UpdateUserInput
	if err := c.Bind(&in); err != nil {
		return invalidBody()
	}
	trimUpdate(&in)

	user, err := h.svc.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return failure(c, err)
	}
	return c.JSON(http.StatusOK, mapper.Single(user))
}

// Destroy godoc
// @Summary Delete user
// @Description Succeeds whether or not the user existed.
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Destroy(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return failure(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

func invalidBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_BODY",
	})
}

// failure renders rule violations as 422 and everything else through MapErrorToHTTP.
func failure(c echo.Context, err error) error {
	if ve, ok := errors.AsValidation(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, ve.ToResponse())
	}
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func trimUpdate(in *model.UpdateUserInput) {
	for _, field := range []**string{&in.Name, &in.Nickname, &in.Email, &in.Password} {
		if *field == nil {
			continue
		}
		trimmed := strings.TrimSpace(**field)
		*field = &trimmed
	}
	if in.Password != nil && *in.Password == "" {
		in.Password = nil
	}
}
