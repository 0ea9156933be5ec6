package handler

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/Kosench/go-shortlink/internal/errors"
	"github.com/Kosench/go-shortlink/internal/model"
	"github.com/Kosench/go-shortlink/internal/web"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	MsgCodeTaken  = "custom code already taken"
	MsgCollision  = "short code collision, please try again"
	MsgUnexpected = "unexpected error, please try again later"
	MsgNotFound   = "not found"
)

type LinkService interface {
	CreateShortLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkResponse, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
	GetStats(ctx context.Context, shortCode string) (*model.LinkResponse, error)
}

type LinkHandler struct {
	links LinkService
	log   zerolog.Logger
}

func NewLinkHandler(links LinkService, log zerolog.Logger) *LinkHandler {
	return &LinkHandler{
		links: links,
		log:   log.With().Str("component", "link_handler").Logger(),
	}
}

// Index renders the form and consumes at most one pending flash message.
func (h *LinkHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, web.NewIndexPage(h.popFlash(c), nil))
}

// Create handles the form post. Any failure turns into a flash and a
// redirect back to the form.
func (h *LinkHandler) Create(c *gin.Context) {
	var req model.CreateLinkRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn().Err(err).Msg("failed to bind create form")
	}

	response, err := h.links.CreateShortLink(c.Request.Context(), &req)
	if err != nil {
		h.flashAndRedirect(c, h.flashMessage(c, err))
		return
	}

	c.HTML(http.StatusOK, web.IndexTemplate, web.NewIndexPage("", response))
}

// Redirect sends the visitor to the original URL and counts the visit.
func (h *LinkHandler) Redirect(c *gin.Context) {
	original, err := h.links.Resolve(c.Request.Context(), c.Param("short"))
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	c.Redirect(http.StatusFound, original)
}

func (h *LinkHandler) Stats(c *gin.Context) {
	link, err := h.links.GetStats(c.Request.Context(), c.Param("short"))
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	c.HTML(http.StatusOK, web.StatsTemplate, web.StatsPage{Link: link, Home: "/"})
}

func (h *LinkHandler) handleLookupError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrURLNotFound) {
		c.String(http.StatusNotFound, MsgNotFound)
		return
	}

	h.log.Error().Err(err).Str("short", c.Param("short")).Msg("lookup failed")
	h.report(c, err)
	c.String(http.StatusInternalServerError, MsgUnexpected)
}

// flashMessage maps a create failure to the single message shown to the user.
func (h *LinkHandler) flashMessage(c *gin.Context, err error) string {
	if validationErr := apperrors.GetValidationError(err); validationErr != nil {
		return validationErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrCodeTaken):
		return MsgCodeTaken
	case errors.Is(err, apperrors.ErrCodeCollision):
		return MsgCollision
	case errors.Is(err, apperrors.ErrAllocationExhausted):
		h.log.Error().Err(err).Str("error_kind", "allocation_exhausted").Msg("create failed")
	default:
		h.log.Error().Err(err).Msg("create failed")
	}

	h.report(c, err)
	return MsgUnexpected
}

func (h *LinkHandler) report(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			if businessErr := apperrors.GetBusinessError(err); businessErr != nil {
				scope.SetTag("error_code", businessErr.Code)
			}
			hub.CaptureException(err)
		})
	}
}

func (h *LinkHandler) flashAndRedirect(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to save flash message")
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *LinkHandler) popFlash(c *gin.Context) string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}

	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to clear flash messages")
	}

	message, _ := flashes[0].(string)
	return message
}
