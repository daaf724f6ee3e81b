// User HTTP handlers.
//
// Endpoints:
//   - POST /users              (register, returns a token)
//   - POST /sessions           (login, returns a token)
//   - GET  /users/{id}         (public profile and the user's ads)
//   - PUT  /users/me           (update own profile)
//   - PUT  /users/me/image     (upload JPEG profile image, raw body)
//   - GET  /users/{id}/image   (serve profile image)
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/services"
)

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64" example:"alice"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
	// PasswordConfirm must equal Password when provided.
	PasswordConfirm string  `json:"password_confirm" example:"correct horse battery staple"`
	Age             *int    `json:"age,omitempty" example:"29"`
	Bio             *string `json:"bio,omitempty" example:"Chess and hiking."`
}

// LoginRequest is the JSON payload for signing in.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

// AuthResponse carries a freshly issued bearer token.
type AuthResponse struct {
	UserID    string    `json:"user_id" example:"2f1c0c1e-6a3e-4bde-9d4e-5f8f2f5b7a10"`
	Username  string    `json:"username" example:"alice"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateProfileRequest replaces the optional profile fields. Omitted fields
// are cleared.
type UpdateProfileRequest struct {
	Age *int    `json:"age" example:"30"`
	Bio *string `json:"bio" example:"Looking for a chess partner."`
}

// ProfileResponse is a public profile with the user's ads, newest first.
type ProfileResponse struct {
	services.Profile
	Ads []domain.AdSummary `json:"ads"`
}

//
// Handlers
//

// Register godoc
// @ID          registerUser
// @Summary     Register a new user
// @Description Creates an account and returns a bearer token for it.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterRequest  true  "Registration payload"
// @Success     201   {object}  handlers.AuthResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409   {object}  handlers.ErrorResponse  "Username taken"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "passwords do not match")
		return
	}
	u, err := h.users.Create(c.Request.Context(), strings.TrimSpace(req.Username), req.Password, req.Age, req.Bio)
	if err != nil {
		failErr(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, u.ID, u.Username)
}

// Login godoc
// @ID          login
// @Summary     Sign in
// @Description Verifies credentials and returns a bearer token. Unknown users and wrong passwords are indistinguishable.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.AuthResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}
	username := strings.TrimSpace(req.Username)
	id, err := h.users.Authenticate(c.Request.Context(), username, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, id, username)
}

func (h *Handlers) respondWithToken(c *gin.Context, status int, userID, username string) {
	tok, exp, err := h.tokens.Issue(userID, username)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, status, AuthResponse{
		UserID:    userID,
		Username:  username,
		Token:     tok,
		TokenType: "Bearer",
		ExpiresAt: exp,
	})
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user's profile
// @Description Returns the public profile and the user's ads, newest first.
// @Tags        Users
// @Produce     json
// @Param       id   path      string  true  "User ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.ProfileResponse
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.users.Get(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ads, err := h.users.Ads(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ProfileResponse{Profile: *p, Ads: ads})
}

// UpdateMe godoc
// @ID          updateMe
// @Summary     Update own profile
// @Description Replaces age and bio of the signed-in user.
// @Tags        Users
// @Accept      json
// @Security    BearerAuth
// @Param       body  body  handlers.UpdateProfileRequest  true  "Profile fields"
// @Success     204   {string}  string  "No Content"
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401   {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/me [put]
func (h *Handlers) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.users.UpdateProfile(c.Request.Context(), callerID(c), req.Age, req.Bio); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// UploadImage godoc
// @ID          uploadImage
// @Summary     Upload profile image
// @Description Replaces the signed-in user's profile image. The raw request body must be a JPEG of at most 100 KiB.
// @Tags        Users
// @Accept      image/jpeg
// @Security    BearerAuth
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Not a JPEG or too large"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     413  {object}  handlers.ErrorResponse  "Body exceeds the global limit"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/me/image [put]
func (h *Handlers) UploadImage(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read request body")
		return
	}
	if err := h.users.UpdateImage(c.Request.Context(), callerID(c), data); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// GetImage godoc
// @ID          getImage
// @Summary     Get profile image
// @Tags        Users
// @Produce     image/jpeg
// @Param       id   path      string  true  "User ID (UUID)"  format(uuid)
// @Success     200  {file}    binary
// @Failure     404  {object}  handlers.ErrorResponse  "No image"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/image [get]
func (h *Handlers) GetImage(c *gin.Context) {
	data, err := h.users.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}
