package api

import (
	"net/http"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls the auth cookies set on login and refresh.
type CookieConfig struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	uploads     *UploadIntake
	cookies     CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, uploads *UploadIntake, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, uploads: uploads, cookies: cookies}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	FullName string `form:"fullName"`
	Email    string `form:"email"`
	Username string `form:"username"`
	Password string `form:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required,notblank"`
	NewPassword string `json:"newPassword" binding:"required,notblank,min=6"`
}

type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// --- Handler Methods ---

// Register creates an account from a multipart form with avatar and optional coverImage.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	var saved tempFiles
	defer saved.cleanup(c)

	avatar, err := h.uploads.Save(c, fieldAvatar, domain.MediaImage, &saved)
	if err != nil {
		respondError(c, err)
		return
	}
	cover, err := h.uploads.Save(c, fieldCoverImage, domain.MediaImage, &saved)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login accepts a username or an email with the password and sets both auth cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pair, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// RefreshToken rotates the session using the refreshToken cookie or body field.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req RefreshRequest
		// An empty or missing body is the same as no token.
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, pair, "Access token refreshed")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

// --- Cookie Helpers ---

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *service.TokenPair) {
	h.setCookie(c, accessTokenCookie, pair.AccessToken, int(h.cookies.AccessMaxAge.Seconds()))
	h.setCookie(c, refreshTokenCookie, pair.RefreshToken, int(h.cookies.RefreshMaxAge.Seconds()))
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie, legacyAccessTokenCookie} {
		h.setCookie(c, name, "", -1)
	}
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	// Cross-site cookies need SameSite=None, which browsers only accept with Secure.
	if h.cookies.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, value, maxAge, "/", "", h.cookies.Secure, true)
}
