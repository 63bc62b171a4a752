package handler

import (
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/middleware"
	"github.com/Neakz-star/La-Desesperanza/internal/service"
	"github.com/Neakz-star/La-Desesperanza/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	svc   *service.AuthService
	store session.Store
}

func NewAuthHandler(svc *service.AuthService, store session.Store) *AuthHandler {
	return &AuthHandler{svc: svc, store: store}
}

// setSessionCookie issues the httpOnly session cookie for sid.
func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sid, int(h.store.TTL().Seconds()), "/", "", false, true)
}

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	usuario, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	sid, err := h.store.Create(c.Request.Context(), session.Data{
		UserID:   usuario.ID.String(),
		Username: usuario.Username,
		Admin:    usuario.Admin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, sid)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Mensaje:  "Login exitoso",
		Admin:    usuario.Admin,
		Username: usuario.Username,
	})
}

// Register godoc
// @Summary Registro de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Datos de registro"
// @Success 201 {object} dto.LoginResponse
// @Failure 409 {object} apierror.APIError
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	usuario, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Registration logs the user straight in.
	sid, err := h.store.Create(c.Request.Context(), session.Data{
		UserID:   usuario.ID.String(),
		Username: usuario.Username,
		Admin:    usuario.Admin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, sid)

	c.JSON(http.StatusCreated, dto.LoginResponse{
		Mensaje:  "Usuario registrado con éxito",
		Admin:    usuario.Admin,
		Username: usuario.Username,
	})
}

// Logout destroys the server-side session and expires the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := c.GetString(middleware.SIDKey); sid != "" {
		if err := h.store.Destroy(c.Request.Context(), sid); err != nil {
			log.Warn().Err(err).Msg("session destroy failed")
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"mensaje": "Sesión cerrada"})
}

// CheckAuth reports whether the request carries a live session. Always 200;
// the body says which.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	data, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusOK, dto.CheckAuthResponse{LoggedIn: false})
		return
	}
	c.JSON(http.StatusOK, dto.CheckAuthResponse{
		LoggedIn: true,
		Username: data.Username,
		Admin:    data.Admin,
	})
}

// Perfil returns the account behind the session, straight from the database
// so a just-revoked admin flag is reflected immediately.
func (h *AuthHandler) Perfil(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	usuario, err := h.svc.Perfil(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PerfilResponse{
		ID:      usuario.ID.String(),
		Usuario: usuario.Username,
		Admin:   usuario.Admin,
	})
}

// ── Usuarios Handler (admin) ─────────────────────────────────────────────────

type UsuariosHandler struct{ svc *service.AuthService }

func NewUsuariosHandler(svc *service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) ToggleAdmin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ToggleAdmin(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarUsuario(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Usuario eliminado"})
}
