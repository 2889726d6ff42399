package handlers

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/service"
	"github.com/contentflow/contentflow-api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type PlatformHandler struct {
	ps  service.PlatformService
	cs  service.ConnectService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, cs service.ConnectService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		cs:  cs,
		cfg: cfg,
	}
}

func (h *PlatformHandler) AddSocialAccount(c *fiber.Ctx) error {
	platform := c.Params("platform")
	if !models.IsSupportedPlatform(platform) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported platform",
		})
	}

	authURL := h.ps.GetAuthURL(c.Context(), platform, c.Query("state"))
	return c.Redirect(authURL)
}

// CallbackHandler finishes a platform link. Failures redirect back to
// the dashboard with a readable error query param instead of surfacing
// the provider response.
func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	oauthErr := c.Query("error")
	platform := c.Params("platform")

	if oauthErr != "" {
		return h.redirectWithError(c, "Access was denied")
	}

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return h.redirectWithError(c, "Unable to validate user")
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return h.redirectWithError(c, "Unable to validate user")
	}

	if err := h.cs.Callback(c.Context(), platform, code, userID); err != nil {
		slog.Info(err.Error())
		return h.redirectWithError(c, "Unable to connect account")
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts?platform=%s&success=true", h.cfg.FrontendURL, platform)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) redirectWithError(c *fiber.Ctx, msg string) error {
	redirectURL := fmt.Sprintf("%s/dashboard/accounts?error=%s", h.cfg.FrontendURL, url.QueryEscape(msg))
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.ps.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch social accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *PlatformHandler) DisconnectSocialAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	err := h.ps.Disconnect(c.Context(), userID, int64(accountID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to disconnect social account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
