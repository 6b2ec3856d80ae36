package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/catalog"
	"github.com/tkoide/shutsugan/core/roster"
)

type rosterApi struct {
	svc      *roster.Service
	logger   core.Logger
	validate *validator.Validate
}

func registerRosterAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *roster.Service,
	logger core.Logger,
	validate *validator.Validate,
) {
	api := rosterApi{svc: svc, logger: logger, validate: validate}

	ag := g.Group("", jwt)
	ag.GET("/board", api.board)
	ag.GET("/universities/unregistered", api.unregistered)
	ag.POST("/universities/:id/register", api.register)
	ag.PUT("/tasks/:university/:template/completed", api.setCompleted)
	ag.PUT("/tasks/:university/:template/favorite", api.setFavorite)
}

// Handlers

func (api *rosterApi) board(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var opts BoardOptions
	if err = ctx.Bind(&opts); err != nil {
		return errors.Wrap(err, "binding to BoardOptions")
	}
	if err = opts.Validate(api.validate); err != nil {
		return err
	}

	rows, err := api.svc.Board(ctx.Request().Context(), claims.Subject, time.Now(), opts.projectOptions())
	if err != nil {
		return errors.Wrap(err, "projecting board")
	}
	if rows == nil {
		rows = []roster.ViewRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

// unregistered degrades to an empty list on store errors so the
// registration screen always renders; the failure is still logged.
func (api *rosterApi) unregistered(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	unis, err := api.svc.UnregisteredUniversities(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if !core.IsStoreUnavailable(err) {
			return errors.Wrap(err, "querying unregistered universities")
		}
		api.logger.Error(fmt.Sprintf("listing unregistered universities: %v", err), err)
		unis = nil
	}
	if unis == nil {
		unis = []catalog.University{}
	}
	return ctx.JSON(http.StatusOK, unis)
}

func (api *rosterApi) register(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	created, err := api.svc.RegisterUniversity(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "registering university")
	}
	return ctx.JSON(http.StatusCreated, RegisterResponse{Created: created})
}

func (api *rosterApi) setCompleted(ctx echo.Context) error {
	return api.setFlag(ctx, api.svc.SetCompleted)
}

func (api *rosterApi) setFavorite(ctx echo.Context) error {
	return api.setFlag(ctx, api.svc.SetFavorite)
}

func (api *rosterApi) setFlag(
	ctx echo.Context,
	set func(ctx context.Context, userID, universityID, templateID string, value bool) error,
) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data FlagRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FlagRequest")
	}
	if data.Value == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "value", Error: "this field is required"})
	}

	err = set(ctx.Request().Context(), claims.Subject, ctx.Param("university"), ctx.Param("template"), *data.Value)
	if err != nil {
		return errors.Wrap(err, "updating task flag")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	// BoardOptions binds the board query params to projection options.
	BoardOptions struct {
		HideCompleted bool   `query:"hide_completed"`
		FavoritesOnly bool   `query:"favorites_only"`
		Sort          string `query:"sort" validate:"omitempty,oneof=due university"`
	}

	RegisterResponse struct {
		Created int `json:"created"`
	}

	FlagRequest struct {
		Value *bool `json:"value"`
	}
)

func (bo *BoardOptions) Validate(validate *validator.Validate) error {
	return validate.Struct(bo)
}

func (bo *BoardOptions) projectOptions() roster.ProjectOptions {
	return roster.ProjectOptions{
		HideCompleted: bo.HideCompleted,
		FavoritesOnly: bo.FavoritesOnly,
		SortBy:        roster.SortOrder(bo.Sort),
	}
}
