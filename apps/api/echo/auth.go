package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/user"
)

const jwtContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func GetUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type authApi struct {
	conf     *core.Config
	svc      *user.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, conf *core.Config, svc *user.Service, validate *validator.Validate) {
	api := authApi{conf: conf, svc: svc, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/signin", api.signin)
}

// signin resolves an externally verified identity to a local user and
// issues a token for it. First sign-in creates the user.
func (api *authApi) signin(ctx echo.Context) error {
	var data SigninRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SigninRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Resolve(ctx.Request().Context(), data.Email, data.Name)
	if err != nil {
		return errors.Wrap(err, "resolving user")
	}

	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, SigninResponse{Token: token, User: usr})
}

type (
	SigninRequest struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required"`
	}

	SigninResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
)

func (sr *SigninRequest) Validate(validate *validator.Validate) error {
	sr.Email = core.CleanString(sr.Email, true /* lower */)
	sr.Name = core.CleanString(sr.Name)
	return validate.Struct(sr)
}
